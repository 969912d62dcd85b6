package hub

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/studybuddy/studybuddy/internal/router"
	"github.com/studybuddy/studybuddy/internal/screen"
	"github.com/studybuddy/studybuddy/internal/screens/flashcards"
	"github.com/studybuddy/studybuddy/internal/screens/mindmap"
	"github.com/studybuddy/studybuddy/internal/screens/quiz"
	"github.com/studybuddy/studybuddy/internal/screens/summary"
	"github.com/studybuddy/studybuddy/internal/store"
	"github.com/studybuddy/studybuddy/internal/studyapi"
	"github.com/studybuddy/studybuddy/internal/ui/components"
	"github.com/studybuddy/studybuddy/internal/ui/layout"
	"github.com/studybuddy/studybuddy/internal/ui/theme"
)

// lastAttemptMsg delivers the most recent recorded quiz for the document.
type lastAttemptMsg struct {
	Attempt *store.Attempt
}

// HubScreen offers the study modes available for a single document.
type HubScreen struct {
	api      studyapi.Service
	attempts store.AttemptRepo
	doc      studyapi.Document
	menu     components.Menu

	// last is the newest recorded attempt for this document, shown as a
	// hint under the subtitle. Nil until loaded, or when there is none.
	last *store.Attempt
}

var _ screen.Screen = (*HubScreen)(nil)
var _ screen.ContextProvider = (*HubScreen)(nil)
var _ screen.KeyHintProvider = (*HubScreen)(nil)

// New creates the hub for the given document.
func New(api studyapi.Service, attempts store.AttemptRepo, doc studyapi.Document) *HubScreen {
	s := &HubScreen{
		api:      api,
		attempts: attempts,
		doc:      doc,
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Quiz", Action: s.push(func() screen.Screen {
			return quiz.New(s.api, s.attempts, s.doc)
		})},
		{Label: "Mind Map", Action: s.push(func() screen.Screen {
			return mindmap.New(s.api, s.doc)
		})},
		{Label: "Flashcards", Action: s.push(func() screen.Screen {
			return flashcards.New(s.api, s.doc)
		})},
		{Label: "Summary", Action: s.push(func() screen.Screen {
			return summary.New(s.api, s.doc)
		})},
		{Label: "Switch Document", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}},
	})
	return s
}

// push builds a menu action that pushes the screen built by next.
func (s *HubScreen) push(next func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: next()}
		}
	}
}

func (s *HubScreen) Init() tea.Cmd {
	if s.attempts == nil {
		return nil
	}
	return func() tea.Msg {
		attempts, err := s.attempts.ForDocument(context.Background(), s.doc.ID, 1)
		if err != nil || len(attempts) == 0 {
			return lastAttemptMsg{}
		}
		return lastAttemptMsg{Attempt: &attempts[0]}
	}
}

func (s *HubScreen) Title() string {
	return "Study"
}

func (s *HubScreen) ContextLabel() string {
	return s.doc.DisplayName()
}

func (s *HubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(lastAttemptMsg); ok {
		s.last = m.Attempt
		return s, nil
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *HubScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(s.doc.DisplayName())))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("How do you want to study this document?")))
	b.WriteString("\n")

	if s.last != nil {
		note := fmt.Sprintf("Last quiz: %d%% · %s", s.last.Percent, s.last.FinishedAt.Format("Jan 02"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(note)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	menu := s.menu.View()
	for _, line := range strings.Split(strings.TrimRight(menu, "\n"), "\n") {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	return b.String()
}
