package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/studybuddy/studybuddy/internal/ui/theme"
)

// Choice is one selectable option with its letter label.
type Choice struct {
	Label string
	Text  string
}

// ChoiceList renders the options of a multiple-choice question.
// Picking records a choice without judging it; grading happens when the
// whole quiz is submitted. In review mode the list annotates the
// correct label and the recorded choice instead of the cursor.
type ChoiceList struct {
	Choices []Choice
	Cursor  int
	// Chosen is the label of the recorded response, empty when the
	// question is unanswered.
	Chosen string
	// Review switches rendering from picking to result annotation.
	Review bool
	// CorrectLabel is the answer key shown in review mode.
	CorrectLabel string
}

// NewChoiceList creates a choice list with the cursor on the first
// option. chosen restores a previously recorded response.
func NewChoiceList(choices []Choice, chosen string) ChoiceList {
	cursor := 0
	for i, c := range choices {
		if chosen != "" && c.Label == chosen {
			cursor = i
			break
		}
	}
	return ChoiceList{
		Choices: choices,
		Cursor:  cursor,
		Chosen:  chosen,
	}
}

// Update handles cursor movement. Picking is driven by the screen.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	if c.Review {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Choices)-1 {
			c.Cursor++
		}
	}

	return c, nil
}

// Pick records the option under the cursor and returns its label.
func (c *ChoiceList) Pick() string {
	if c.Cursor < 0 || c.Cursor >= len(c.Choices) {
		return ""
	}
	c.Chosen = c.Choices[c.Cursor].Label
	return c.Chosen
}

// PickLabel records the option with the given label, reporting whether
// it exists.
func (c *ChoiceList) PickLabel(label string) bool {
	for i, choice := range c.Choices {
		if choice.Label == label {
			c.Cursor = i
			c.Chosen = label
			return true
		}
	}
	return false
}

// View renders the option rows.
func (c ChoiceList) View() string {
	var s string
	for i, choice := range c.Choices {
		mark := " "
		if choice.Label == c.Chosen {
			mark = "●"
		}
		prefix := "  "
		if !c.Review && i == c.Cursor {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, choice.Label, choice.Text)

		switch {
		case c.Review && choice.Label == c.CorrectLabel:
			s += theme.Correct.Render(line) + "\n"
		case c.Review && choice.Label == c.Chosen:
			s += theme.Incorrect.Render(line) + "\n"
		case c.Review:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == c.Cursor:
			s += theme.Selected.Render(line) + "\n"
		case choice.Label == c.Chosen:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}
	return s
}
