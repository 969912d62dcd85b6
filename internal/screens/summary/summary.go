package summary

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/studybuddy/studybuddy/internal/screen"
	"github.com/studybuddy/studybuddy/internal/studyapi"
	"github.com/studybuddy/studybuddy/internal/ui/components"
	"github.com/studybuddy/studybuddy/internal/ui/layout"
	"github.com/studybuddy/studybuddy/internal/ui/theme"
)

type setupField int

const (
	fieldLength setupField = iota
	fieldFocus
	fieldGo
)

// summaryReadyMsg is sent when a summarize request finishes.
type summaryReadyMsg struct {
	Seq  int
	Text string
	Err  error
}

// SummaryScreen asks the backend for a document summary and shows it as
// scrollable text. The form stays available between runs so the learner
// can re-summarize at another length or focus.
type SummaryScreen struct {
	api studyapi.Service
	doc studyapi.Document

	field  setupField
	length studyapi.SummaryLength
	focus  components.TextInput

	text         string
	scrollOffset int

	loading bool
	errMsg  string
	genSeq  int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.ContextProvider = (*SummaryScreen)(nil)

// New creates a summary screen for the given document.
func New(api studyapi.Service, doc studyapi.Document) *SummaryScreen {
	return &SummaryScreen{
		api:    api,
		doc:    doc,
		length: studyapi.LengthMedium,
		focus:  components.NewTextInput("optional, e.g. key definitions", false, 120),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return s.focus.Init()
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) ContextLabel() string {
	return s.doc.DisplayName()
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	if s.text != "" {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "N", Description: "New summary"},
			{Key: "G", Description: "Regenerate"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "◂▸", Description: "Length"},
		{Key: "Enter", Description: "Summarize"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) generate() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	s.genSeq++

	seq := s.genSeq
	in := studyapi.SummarizeInput{
		DocumentID: s.doc.ID,
		Focus:      strings.TrimSpace(s.focus.Value()),
		Length:     s.length,
	}
	return func() tea.Msg {
		text, err := s.api.Summarize(context.Background(), in)
		return summaryReadyMsg{Seq: seq, Text: text, Err: err}
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryReadyMsg:
		return s.handleReady(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Cursor blink and similar component messages.
	if s.text == "" && !s.loading {
		var cmd tea.Cmd
		s.focus, cmd = s.focus.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SummaryScreen) handleReady(msg summaryReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.genSeq {
		return s, nil
	}
	s.loading = false
	if msg.Err != nil {
		s.errMsg = studyapi.UserMessage(msg.Err)
		return s, nil
	}
	if strings.TrimSpace(msg.Text) == "" {
		s.errMsg = "the model returned an empty summary. Try again."
		return s, nil
	}
	s.text = msg.Text
	s.scrollOffset = 0
	return s, nil
}

func (s *SummaryScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}
	if s.text != "" {
		return s.handleReadingKey(msg.String())
	}
	return s.handleSetupKey(msg)
}

func (s *SummaryScreen) handleReadingKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k":
		if s.scrollOffset > 0 {
			s.scrollOffset--
		}
	case "down", "j":
		s.scrollOffset++
	case "n", "N":
		s.text = ""
		s.scrollOffset = 0
	case "g", "G":
		return s, s.generate()
	}
	return s, nil
}

func (s *SummaryScreen) handleSetupKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "shift+tab":
		if s.field > fieldLength {
			s.field--
		}
		return s, nil
	case "down", "tab":
		if s.field < fieldGo {
			s.field++
		}
		return s, nil
	case "enter":
		if s.field == fieldGo {
			return s, s.generate()
		}
		s.field++
		return s, nil
	}

	switch s.field {
	case fieldLength:
		switch msg.String() {
		case "left", "h":
			s.cycleLength(-1)
		case "right", "l", "space", " ":
			s.cycleLength(+1)
		}
	case fieldFocus:
		var cmd tea.Cmd
		s.focus, cmd = s.focus.Update(msg)
		return s, cmd
	}
	return s, nil
}

var lengthOrder = []studyapi.SummaryLength{
	studyapi.LengthShort,
	studyapi.LengthMedium,
	studyapi.LengthLong,
}

func (s *SummaryScreen) cycleLength(delta int) {
	idx := 0
	for i, l := range lengthOrder {
		if l == s.length {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(lengthOrder)) % len(lengthOrder)
	s.length = lengthOrder[idx]
}

func (s *SummaryScreen) View(width, height int) string {
	if s.loading {
		note := fmt.Sprintf("Writing a %s summary of %q...", s.length, s.doc.DisplayName())
		if f := strings.TrimSpace(s.focus.Value()); f != "" {
			note += fmt.Sprintf("\nfocusing on %q", f)
		}
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n" + note)
	}
	if s.text != "" {
		return s.renderReading(width, height)
	}
	return s.renderSetup(width)
}

func (s *SummaryScreen) renderSetup(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Summarize %q", s.doc.DisplayName())))
	b.WriteString("\n\n")

	rows := []string{
		s.renderFormRow(fieldLength, "Length", fmt.Sprintf("◂ %s ▸", s.length)),
		s.renderFormRow(fieldFocus, "Focus", s.focus.View()),
	}
	for _, row := range rows {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	button := "  Summarize  "
	if s.field == fieldGo {
		button = lipgloss.NewStyle().
			Foreground(theme.BgDark).
			Background(theme.Primary).
			Bold(true).
			Render(button)
	} else {
		button = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("[ Summarize ]")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, button))
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
	}

	return b.String()
}

func (s *SummaryScreen) renderFormRow(f setupField, label, value string) string {
	selected := s.field == f

	cursor := "  "
	labelStyle := theme.Unselected
	if selected {
		cursor = "▸ "
		labelStyle = theme.Selected
	}

	return fmt.Sprintf("%s%s  %s",
		cursor,
		labelStyle.Render(fmt.Sprintf("%-8s", label)),
		value,
	)
}

func (s *SummaryScreen) renderReading(width, height int) string {
	contentWidth := min(width-4, 80)
	if contentWidth < 20 {
		contentWidth = width
	}

	meta := fmt.Sprintf("%s summary", s.length)
	if f := strings.TrimSpace(s.focus.Value()); f != "" {
		meta += fmt.Sprintf(" · focus: %s", f)
	}
	header := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(s.doc.DisplayName()) +
		"  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(meta)

	wrapped := lipgloss.NewStyle().Width(contentWidth).Foreground(theme.Text).Render(s.text)
	lines := strings.Split(wrapped, "\n")

	visible := height - 5
	if visible < 3 {
		visible = 3
	}
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scrollOffset > maxScroll {
		s.scrollOffset = maxScroll
	}

	end := s.scrollOffset + visible
	if end > len(lines) {
		end = len(lines)
	}
	body := strings.Join(lines[s.scrollOffset:end], "\n")
	if end < len(lines) {
		body += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("↓ more")
	}

	var b strings.Builder
	b.WriteString("  " + header + "\n")
	b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", contentWidth)) + "\n")
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(body))
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
