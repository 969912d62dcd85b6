package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/studybuddy/studybuddy/internal/screen"
	"github.com/studybuddy/studybuddy/internal/store"
	"github.com/studybuddy/studybuddy/internal/ui/layout"
	"github.com/studybuddy/studybuddy/internal/ui/theme"
)

// historyLimit caps how many attempts the screen loads.
const historyLimit = 50

type historyLoadedMsg struct {
	Attempts []store.Attempt
	Stats    store.Stats
	Err      error
}

// HistoryScreen lists past quiz attempts with expandable details.
type HistoryScreen struct {
	attempts store.AttemptRepo

	rows     []store.Attempt
	stats    store.Stats
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(attempts store.AttemptRepo) *HistoryScreen {
	return &HistoryScreen{
		attempts: attempts,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		rows, err := s.attempts.Recent(ctx, historyLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Aggregates are decoration; show the list even if they fail.
		stats, err := s.attempts.Stats(ctx)
		if err != nil {
			return historyLoadedMsg{Attempts: rows}
		}

		return historyLoadedMsg{Attempts: rows, Stats: stats}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.rows = msg.Attempts
			s.stats = msg.Stats
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.rows)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.rows) == 0 {
		return theme.Hint.Width(width).Align(lipgloss.Center).
			Render("\n\n  No quizzes taken yet. Open a document and start one.")
	}

	var b strings.Builder
	b.WriteString("\n")

	statsLine := fmt.Sprintf("%d attempts · average %d%% · best %d%%",
		s.stats.Attempts, s.stats.AvgPercent, s.stats.BestPercent)
	if s.stats.AutoSubmitted > 0 {
		statsLine += fmt.Sprintf(" · %d auto-submitted", s.stats.AutoSubmitted)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(statsLine)))
	b.WriteString("\n\n")

	for i, a := range s.rows {
		dateStr := a.FinishedAt.Format("Jan 02 15:04")
		mins := a.DurationSeconds / 60
		secs := a.DurationSeconds % 60
		durationStr := fmt.Sprintf("%d:%02d", mins, secs)

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		name := a.DocumentName
		if len(name) > 24 {
			name = name[:23] + "…"
		}

		percent := lipgloss.NewStyle().
			Foreground(percentColor(a.Percent)).
			Render(fmt.Sprintf("%3d%%", a.Percent))

		line := fmt.Sprintf("%s%s  %-24s  %s  %d/%d  %s",
			prefix, dateStr, name, percent, a.Correct, a.Questions, durationStr)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    %s · %s mode", a.QuizTitle, a.Mode)
			if a.AutoSubmitted {
				detail += " · submitted by the countdown"
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func percentColor(percent int) color.Color {
	switch {
	case percent >= 80:
		return theme.Success
	case percent >= 50:
		return theme.Accent
	default:
		return theme.Error
	}
}
