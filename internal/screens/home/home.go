package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/studybuddy/studybuddy/internal/router"
	"github.com/studybuddy/studybuddy/internal/screen"
	"github.com/studybuddy/studybuddy/internal/screens/documents"
	"github.com/studybuddy/studybuddy/internal/screens/history"
	"github.com/studybuddy/studybuddy/internal/store"
	"github.com/studybuddy/studybuddy/internal/studyapi"
	"github.com/studybuddy/studybuddy/internal/ui/components"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu       components.Menu
	menuLabels []string
	disabled   map[int]bool
	stats      store.Stats
	hasStats   bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. attempts may be nil; history is then
// disabled.
func New(api studyapi.Service, attempts store.AttemptRepo) *HomeScreen {
	var stats store.Stats
	hasStats := false
	if attempts != nil {
		if st, err := attempts.Stats(context.Background()); err == nil {
			stats = st
			hasStats = true
		}
	}

	menuLabels := []string{"DOCUMENTS", "HISTORY", "QUIT"}
	disabled := map[int]bool{1: attempts == nil}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: documents.New(api, attempts)}
			}
		}},
		{Label: menuLabels[1], Disabled: attempts == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(attempts)}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
		disabled:   disabled,
		stats:      stats,
		hasStats:   hasStats,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height by
	// adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 38 || width < 52

	// All sections share a uniform content width so they line up.
	cw := contentWidth(width)

	var sections []string

	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, renderTagline(cw))

	if h.hasStats && h.stats.Attempts > 0 {
		sections = append(sections, renderStatsBar(h.stats, cw, compact))
	}

	if compact {
		sections = append(sections, renderMenuCompact(
			h.menuLabels, h.menu.Selected, cw, h.disabled))
	} else {
		sections = append(sections, renderMenuButtons(
			h.menuLabels, h.menu.Selected, cw, h.disabled))
	}

	content := strings.Join(sections, "\n\n")

	return renderHomeFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
