package documents

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/studybuddy/studybuddy/internal/router"
	"github.com/studybuddy/studybuddy/internal/screen"
	"github.com/studybuddy/studybuddy/internal/screens/hub"
	"github.com/studybuddy/studybuddy/internal/store"
	"github.com/studybuddy/studybuddy/internal/studyapi"
	"github.com/studybuddy/studybuddy/internal/ui/layout"
	"github.com/studybuddy/studybuddy/internal/ui/theme"
)

// loadedMsg is sent when the document list has been fetched.
type loadedMsg struct {
	Docs []studyapi.Document
	Err  error
}

// DocumentsScreen lists the uploaded documents and opens the study hub
// for the selected one. Only fully processed documents can be opened.
type DocumentsScreen struct {
	api      studyapi.Service
	attempts store.AttemptRepo

	docs         []studyapi.Document
	cursor       int
	scrollOffset int
	loaded       bool
	errMsg       string
	notice       string
}

var _ screen.Screen = (*DocumentsScreen)(nil)
var _ screen.KeyHintProvider = (*DocumentsScreen)(nil)

// New creates a new DocumentsScreen.
func New(api studyapi.Service, attempts store.AttemptRepo) *DocumentsScreen {
	return &DocumentsScreen{
		api:      api,
		attempts: attempts,
	}
}

func (s *DocumentsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *DocumentsScreen) Title() string {
	return "Documents"
}

func (s *DocumentsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "R", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

// load fetches the document list asynchronously.
func (s *DocumentsScreen) load() tea.Cmd {
	return func() tea.Msg {
		docs, err := s.api.ListDocuments(context.Background())
		return loadedMsg{Docs: docs, Err: err}
	}
}

func (s *DocumentsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = studyapi.UserMessage(msg.Err)
			return s, nil
		}
		s.errMsg = ""
		s.docs = msg.Docs
		if s.cursor >= len(s.docs) {
			s.cursor = 0
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *DocumentsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		s.notice = ""
	case "down", "j":
		if s.cursor < len(s.docs)-1 {
			s.cursor++
		}
		s.notice = ""
	case "r", "R":
		s.loaded = false
		s.notice = ""
		return s, s.load()
	case "enter":
		return s, s.open()
	}
	return s, nil
}

// open pushes the hub for the selected document, refusing documents
// the backend has not finished processing.
func (s *DocumentsScreen) open() tea.Cmd {
	if s.cursor < 0 || s.cursor >= len(s.docs) {
		return nil
	}
	doc := s.docs[s.cursor]
	if !doc.Ready() {
		s.notice = fmt.Sprintf("%q is %s; open it once processing completes.",
			doc.DisplayName(), doc.Status)
		return nil
	}
	s.notice = ""
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: hub.New(s.api, s.attempts, doc)}
	}
}

func (s *DocumentsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCould not load documents: %s\n\nPress R to retry.", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading documents...")
	}
	if len(s.docs) == 0 {
		return theme.Hint.Width(width).Align(lipgloss.Center).
			Render("\n\n  No documents yet. Upload one in the web app first.")
	}

	s.adjustScroll(height - 3)

	var b strings.Builder
	b.WriteString("\n")

	visible := 0
	for i, doc := range s.docs {
		if i < s.scrollOffset {
			continue
		}
		if visible >= height-3 {
			break
		}
		b.WriteString(s.renderRow(doc, i == s.cursor, width))
		b.WriteString("\n")
		visible++
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice)))
	}

	return b.String()
}

// adjustScroll keeps the cursor inside the viewport.
func (s *DocumentsScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

// renderRow renders one document line with its status badge.
func (s *DocumentsScreen) renderRow(doc studyapi.Document, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	badgeWidth := 12
	nameWidth := width - badgeWidth - 8
	if nameWidth < 10 {
		nameWidth = 10
	}

	name := doc.DisplayName()
	if len(name) > nameWidth {
		name = name[:nameWidth-1] + "…"
	}

	nameStyle := theme.Unselected
	if selected {
		nameStyle = theme.Selected
	} else if !doc.Ready() {
		nameStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	}

	return fmt.Sprintf("  %s%s  %s",
		cursor,
		nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		statusBadge(doc.Status),
	)
}

// statusBadge renders a processing status label.
func statusBadge(status studyapi.DocumentStatus) string {
	switch status {
	case studyapi.StatusCompleted:
		return lipgloss.NewStyle().Foreground(theme.Success).Render("ready")
	case studyapi.StatusProcessing:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("processing")
	case studyapi.StatusPending:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("pending")
	case studyapi.StatusFailed:
		return lipgloss.NewStyle().Foreground(theme.Error).Render("failed")
	default:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(string(status))
	}
}

