package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/studybuddy/studybuddy/internal/store"
	"github.com/studybuddy/studybuddy/internal/ui/theme"
)

// Block-letter wordmark, stacked so it fits a 60-column content box.
const bannerStudy = ` ███████╗████████╗██╗   ██╗██████╗ ██╗   ██╗
 ██╔════╝╚══██╔══╝██║   ██║██╔══██╗╚██╗ ██╔╝
 ███████╗   ██║   ██║   ██║██║  ██║ ╚████╔╝
 ╚════██║   ██║   ██║   ██║██║  ██║  ╚██╔╝
 ███████║   ██║   ╚██████╔╝██████╔╝   ██║
 ╚══════╝   ╚═╝    ╚═════╝ ╚═════╝    ╚═╝`

const bannerBuddy = ` ██████╗ ██╗   ██╗██████╗ ██████╗ ██╗   ██╗
 ██╔══██╗██║   ██║██╔══██╗██╔══██╗╚██╗ ██╔╝
 ██████╔╝██║   ██║██║  ██║██║  ██║ ╚████╔╝
 ██╔══██╗██║   ██║██║  ██║██║  ██║  ╚██╔╝
 ██████╔╝╚██████╔╝██████╔╝██████╔╝   ██║
 ╚═════╝  ╚═════╝ ╚═════╝ ╚═════╝    ╚═╝`

const bannerCompact = "STUDY · BUDDY"

// contentWidth returns the uniform inner width used for all sections.
// All boxes are rendered at this width so they visually align.
func contentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderTitle returns the two-tone wordmark or a compact fallback.
func renderTitle(cw int, compact bool) string {
	if compact {
		return lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(lipgloss.NewStyle().
				Foreground(theme.Primary).
				Bold(true).
				Render(bannerCompact))
	}

	art := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(bannerStudy) +
		"\n" +
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(bannerBuddy)
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(art)
}

// renderTagline renders the one-line pitch under the wordmark.
func renderTagline(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Width(cw).
		Align(lipgloss.Center).
		Render("Quizzes, mind maps and flashcards from your own documents")
}

// renderStatsBar renders attempt aggregates in a bordered box matching
// content width.
func renderStatsBar(stats store.Stats, cw int, compact bool) string {
	countStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	avgStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	bestStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			countStyle.Render(fmt.Sprintf("★%d", stats.Attempts)),
			avgStyle.Render(fmt.Sprintf("◆%d%%", stats.AvgPercent)),
			bestStyle.Render(fmt.Sprintf("⚡%d%%", stats.BestPercent)),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			countStyle.Render(fmt.Sprintf("★ %d QUIZZES", stats.Attempts)),
			avgStyle.Render(fmt.Sprintf("◆ %d%% AVERAGE", stats.AvgPercent)),
			bestStyle.Render(fmt.Sprintf("⚡ %d%% BEST", stats.BestPercent)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenuButtons renders each menu item as a fixed-width button.
func renderMenuButtons(items []string, selected int, cw int, disabled map[int]bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if disabled[i] {
			buttons = append(buttons, disabledBtn.Render(label))
		} else if i == selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		} else {
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	block := strings.Join(buttons, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderMenuCompact renders menu items as plain lines for terminals
// where bordered buttons would overflow.
func renderMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		if disabled[i] {
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + label)
		} else if i == selected {
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}
	block := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderHomeFrame wraps content in a rounded frame, centering it
// vertically and horizontally within the given dimensions.
func renderHomeFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width - 2).   // account for border chars
		Height(height - 2). // account for border chars
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
