package quiz

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/studybuddy/studybuddy/internal/quiz"
	"github.com/studybuddy/studybuddy/internal/ui/components"
	"github.com/studybuddy/studybuddy/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	switch s.session.Phase {
	case qz.PhaseGenerating:
		return s.renderGenerating(width)
	case qz.PhaseInProgress:
		return s.renderPlay(width, height)
	case qz.PhaseGrading:
		return s.renderGrading(width)
	case qz.PhaseSubmitted:
		if s.session.ReviewVisible {
			return s.renderReview(width, height)
		}
		return s.renderScore(width)
	}
	return s.renderSetup(width)
}

// renderSetup renders the pre-quiz form.
func (s *QuizScreen) renderSetup(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Set up a quiz over %q", s.doc.DisplayName())))
	b.WriteString("\n\n")

	rows := []string{
		s.renderFormRow(fieldQuestions, "Questions", fmt.Sprintf("◂ %d ▸", s.numQuestions), ""),
		s.renderFormRow(fieldMode, "Mode", fmt.Sprintf("◂ %s ▸", displayMode(s.mode)), ""),
		s.renderFormRow(fieldTimer, "Countdown", fmt.Sprintf("◂ %s ▸", onOff(s.session.TimerEnabled)), ""),
	}
	if s.session.TimerEnabled {
		hint := ""
		if !s.manualMinutes {
			hint = "suggested"
		}
		rows = append(rows, s.renderFormRow(fieldMinutes, "Minutes",
			fmt.Sprintf("◂ %d ▸", s.session.Minutes), hint))
	}

	for _, row := range rows {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	start := "  Start quiz  "
	if s.field == fieldStart {
		start = lipgloss.NewStyle().
			Foreground(theme.BgDark).
			Background(theme.Primary).
			Bold(true).
			Render(start)
	} else {
		start = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("[ Start quiz ]")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, start))
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

func (s *QuizScreen) renderFormRow(f setupField, label, value, hint string) string {
	selected := s.field == f

	cursor := "  "
	labelStyle := theme.Unselected
	valueStyle := lipgloss.NewStyle().Foreground(theme.Secondary)
	if selected {
		cursor = "▸ "
		labelStyle = theme.Selected
		valueStyle = theme.Selected
	}

	row := fmt.Sprintf("%s%s  %s",
		cursor,
		labelStyle.Render(fmt.Sprintf("%-10s", label)),
		valueStyle.Render(fmt.Sprintf("%-18s", value)),
	)
	if hint != "" {
		row += theme.Hint.Render(hint)
	}
	return row
}

func displayMode(m qz.Mode) string {
	switch m {
	case qz.ModeChoice:
		return "Multiple choice"
	case qz.ModeTheory:
		return "Written"
	default:
		return "Mixed"
	}
}

func onOff(v bool) string {
	if v {
		return "On"
	}
	return "Off"
}

// renderGenerating renders the wait while the backend builds the quiz.
func (s *QuizScreen) renderGenerating(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Generating %d questions from %q...", s.numQuestions, s.doc.DisplayName())))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("The model may take a moment."))
	return b.String()
}

// renderPlay renders the active question with its answer widget.
func (s *QuizScreen) renderPlay(width, height int) string {
	quiz := s.session.Quiz
	q := s.currentQuestion()
	if quiz == nil || q == nil {
		return ""
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", s.current+1, len(quiz.Questions)))

	answered := len(quiz.Questions) - s.unansweredCount()
	right := fmt.Sprintf("answered %d/%d", answered, len(quiz.Questions))
	if s.session.Timer.Running() {
		right += fmt.Sprintf("  %s %s",
			lipgloss.NewStyle().Foreground(theme.Accent).Render("T"),
			formatSeconds(s.session.Timer.Remaining))
	}
	infoRight := lipgloss.NewStyle().Foreground(theme.TextDim).Render(right)

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 1))))
	b.WriteString("\n\n")

	questionStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(questionStyle.Render(q.Text))
	b.WriteString("\n\n")

	if q.Kind() == qz.KindChoice {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	} else {
		answerLine := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + s.input.View())
		b.WriteString(answerLine)
	}
	b.WriteString("\n\n")

	b.WriteString(s.renderPalette(width))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
	}

	return b.String()
}

// renderPalette renders one dot per question so unanswered ones are
// visible at a glance.
func (s *QuizScreen) renderPalette(width int) string {
	quiz := s.session.Quiz
	parts := make([]string, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		answered := strings.TrimSpace(s.session.Responses.Answer(qz.KeyFor(q, i))) != ""
		mark := "○"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if answered {
			mark = "●"
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		if i == s.current {
			style = style.Bold(true).Underline(true)
		}
		parts = append(parts, style.Render(mark))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(parts, " "))
}

// renderGrading renders the wait while answers are scored.
func (s *QuizScreen) renderGrading(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render("Grading your answers..."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Written answers are scored by the model."))
	return b.String()
}

// renderScore renders the graded result.
func (s *QuizScreen) renderScore(width int) string {
	score := s.session.Score
	if score == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")

	percentStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(scoreColor(score.Percent))
	b.WriteString(percentStyle.Render(fmt.Sprintf("%d%%", score.Percent)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("%d of %d correct", score.Correct, score.Total)))
	b.WriteString("\n\n")

	barWidth := min(width-20, 50)
	if barWidth > 10 {
		bar := components.NewProgressBar("", float64(score.Percent)/100, false, barWidth)
		bar.Fill = scoreColor(score.Percent)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")
	}

	if s.session.AutoSubmitted {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render("Submitted automatically when time ran out."))
		b.WriteString("\n")
	}

	if s.session.Quiz != nil && s.session.Quiz.Provider != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Generated by " + s.session.Quiz.Provider))
		b.WriteString("\n")
	}

	return b.String()
}

func scoreColor(percent int) color.Color {
	switch {
	case percent >= 80:
		return theme.Success
	case percent >= 50:
		return theme.Accent
	default:
		return theme.Error
	}
}

// renderReview renders the per-question breakdown after submission,
// scrolled by whole lines.
func (s *QuizScreen) renderReview(width, height int) string {
	quiz := s.session.Quiz
	if quiz == nil {
		return ""
	}

	var lines []string
	for i, q := range quiz.Questions {
		key := qz.KeyFor(q, i)
		response := strings.TrimSpace(s.session.Responses.Answer(key))
		lines = append(lines, s.renderReviewQuestion(i, q, response, width)...)
		lines = append(lines, "")
	}

	visible := height - 1
	if visible < 1 {
		visible = 1
	}
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.reviewScroll > maxScroll {
		s.reviewScroll = maxScroll
	}

	end := s.reviewScroll + visible
	if end > len(lines) {
		end = len(lines)
	}
	body := strings.Join(lines[s.reviewScroll:end], "\n")

	if end < len(lines) {
		body += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ↓ more")
	}
	return body
}

func (s *QuizScreen) renderReviewQuestion(idx int, q qz.Question, response string, width int) []string {
	textWidth := min(width-8, 76)
	if textWidth < 20 {
		textWidth = 20
	}

	verdict := ""
	if q.Kind() == qz.KindChoice {
		if response == q.Answer {
			verdict = theme.Correct.Render(" ✓")
		} else {
			verdict = theme.Incorrect.Render(" ✗")
		}
	}

	header := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("%2d. %s", idx+1, q.Text)) + verdict

	var lines []string
	lines = append(lines, splitRendered(lipgloss.NewStyle().Width(textWidth).Render(header))...)

	if q.Kind() == qz.KindChoice {
		review := components.ChoiceList{
			Choices:      choicesOf(q),
			Chosen:       response,
			Review:       true,
			CorrectLabel: q.Answer,
		}
		for _, l := range splitRendered(review.View()) {
			lines = append(lines, "    "+l)
		}
	} else {
		yours := response
		if yours == "" {
			yours = "(no answer)"
		}
		lines = append(lines,
			"    "+lipgloss.NewStyle().Foreground(theme.TextDim).Render("Your answer: ")+
				lipgloss.NewStyle().Foreground(theme.Text).Render(yours))
		if q.Answer != "" {
			lines = append(lines,
				"    "+lipgloss.NewStyle().Foreground(theme.TextDim).Render("Reference:   ")+
					lipgloss.NewStyle().Foreground(theme.Success).Render(q.Answer))
		}
	}

	if q.Explanation != "" {
		exp := lipgloss.NewStyle().
			Width(textWidth).
			Foreground(theme.TextDim).
			Italic(true).
			Render(q.Explanation)
		for _, l := range splitRendered(exp) {
			lines = append(lines, "    "+l)
		}
	}

	return lines
}

func choicesOf(q qz.Question) []components.Choice {
	choices := make([]components.Choice, len(q.Options))
	for i, opt := range q.Options {
		choices[i] = components.Choice{Label: opt.Label, Text: opt.Text}
	}
	return choices
}

// splitRendered splits a rendered block into its lines, dropping a
// trailing blank from a final newline.
func splitRendered(block string) []string {
	return strings.Split(strings.TrimRight(block, "\n"), "\n")
}

// renderQuitConfirm renders the leave confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave this quiz?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your answers will be discarded."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// formatSeconds renders a countdown as m:ss.
func formatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
