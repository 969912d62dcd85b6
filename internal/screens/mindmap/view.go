package mindmap

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	mm "github.com/studybuddy/studybuddy/internal/mindmap"
	"github.com/studybuddy/studybuddy/internal/studyapi"
	"github.com/studybuddy/studybuddy/internal/ui/theme"
)

func (s *MindmapScreen) View(width, height int) string {
	if s.loading {
		return s.renderLoading(width)
	}
	if s.outline == nil {
		return s.renderFailed(width)
	}
	return s.renderMap(width, height)
}

func (s *MindmapScreen) renderLoading(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Mapping %q...", s.doc.DisplayName())))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("depth %d · up to %d nodes", s.maxDepth, s.maxNodes)))
	return b.String()
}

func (s *MindmapScreen) renderFailed(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\nCould not build a mind map: %s\n\nPress G to retry.", s.errMsg))
}

func (s *MindmapScreen) renderMap(width, height int) string {
	statusLine := s.renderStatus(width)

	paneHeight := height - 2
	if paneHeight < 3 {
		paneHeight = 3
	}

	outlineWidth := width * 3 / 5
	if outlineWidth < 30 {
		outlineWidth = width
	}
	explainWidth := width - outlineWidth - 2

	left := s.renderOutline(outlineWidth, paneHeight)
	if explainWidth < 20 {
		// Terminal too narrow for the pane; outline gets everything.
		return statusLine + "\n\n" + left
	}
	right := s.renderExplanation(explainWidth, paneHeight)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	return statusLine + "\n\n" + panes
}

func (s *MindmapScreen) renderStatus(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + s.title)

	knobs := fmt.Sprintf("depth %d · %d nodes · %s", s.maxDepth, s.maxNodes, s.size)
	if s.provider != "" {
		knobs += " · " + s.provider
	}
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(knobs)

	line := left
	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

// renderOutline renders the visible tree rows with the cursor kept in
// the viewport.
func (s *MindmapScreen) renderOutline(width, height int) string {
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("  (empty map)")
	}

	s.adjustScroll(height)

	var lines []string
	visible := 0
	for i, row := range s.rows {
		if i < s.scrollOffset {
			continue
		}
		if visible >= height {
			break
		}
		lines = append(lines, s.renderRow(row, i == s.cursor, width))
		visible++
	}
	return strings.Join(lines, "\n")
}

func (s *MindmapScreen) adjustScroll(height int) {
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

func (s *MindmapScreen) renderRow(row mm.Row, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	glyph := "·"
	if row.HasChildren {
		if row.Expanded {
			glyph = "▾"
		} else {
			glyph = "▸"
		}
	}

	indent := strings.Repeat("  ", row.Depth-1)
	labelWidth := width - len(indent) - 8
	if labelWidth < 8 {
		labelWidth = 8
	}
	label := row.Node.Label
	if len(label) > labelWidth {
		label = label[:labelWidth-1] + "…"
	}

	style := theme.Unselected
	switch {
	case selected:
		style = theme.Selected
	case s.cache.Selected() && row.Node.Label == s.cache.Topic():
		style = lipgloss.NewStyle().Foreground(theme.Secondary)
	case !row.HasChildren:
		style = lipgloss.NewStyle().Foreground(theme.TextDim)
	}

	return fmt.Sprintf("  %s%s%s %s", cursor, indent,
		lipgloss.NewStyle().Foreground(theme.Border).Render(glyph),
		style.Render(label))
}

// renderExplanation renders the topic pane.
func (s *MindmapScreen) renderExplanation(width, height int) string {
	if !s.cache.Selected() {
		return theme.Hint.Width(width).
			Render("Select a topic and press E for an explanation.")
	}

	header := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Width(width).
		Render(s.cache.Topic())

	var body string
	switch {
	case s.cache.Loading():
		body = lipgloss.NewStyle().Foreground(theme.TextDim).Width(width).
			Render(fmt.Sprintf("Explaining (%s)...", s.cache.Size()))
	case s.cache.Err() != nil:
		body = lipgloss.NewStyle().Foreground(theme.Error).Width(width).
			Render(studyapi.UserMessage(s.cache.Err()))
	default:
		body = lipgloss.NewStyle().Foreground(theme.Text).Width(width).
			Render(s.cache.Text())
	}

	block := header + "\n\n" + body
	lines := strings.Split(block, "\n")
	if len(lines) > height {
		lines = lines[:height-1]
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("↓ more (press S for a shorter size)"))
	}
	return strings.Join(lines, "\n")
}
