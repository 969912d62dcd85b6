package flashcards

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/studybuddy/studybuddy/internal/screen"
	"github.com/studybuddy/studybuddy/internal/studyapi"
	"github.com/studybuddy/studybuddy/internal/ui/layout"
	"github.com/studybuddy/studybuddy/internal/ui/theme"
)

const (
	defaultCards = 20
	minCards     = 1
	maxCards     = 100
	cardStep     = 5
)

// deckReadyMsg is sent when a flashcard generation request finishes.
type deckReadyMsg struct {
	Seq  int
	Deck *studyapi.Deck
	Err  error
}

// FlashcardsScreen pages through a generated deck one card at a time,
// front first.
type FlashcardsScreen struct {
	api studyapi.Service
	doc studyapi.Document

	deck *studyapi.Deck
	num  int
	idx  int
	back bool

	loading bool
	errMsg  string
	genSeq  int
}

var _ screen.Screen = (*FlashcardsScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardsScreen)(nil)
var _ screen.ContextProvider = (*FlashcardsScreen)(nil)

// New creates a flashcards screen for the given document.
func New(api studyapi.Service, doc studyapi.Document) *FlashcardsScreen {
	return &FlashcardsScreen{
		api: api,
		doc: doc,
		num: defaultCards,
	}
}

func (s *FlashcardsScreen) Init() tea.Cmd {
	return s.generate()
}

func (s *FlashcardsScreen) Title() string {
	return "Flashcards"
}

func (s *FlashcardsScreen) ContextLabel() string {
	return s.doc.DisplayName()
}

func (s *FlashcardsScreen) KeyHints() []layout.KeyHint {
	if s.loading || s.deck == nil {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Card"},
		{Key: "+/-", Description: "Deck size"},
		{Key: "G", Description: "New deck"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FlashcardsScreen) generate() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	s.genSeq++

	seq := s.genSeq
	in := studyapi.GenerateFlashcardsInput{
		DocumentID: s.doc.ID,
		NumCards:   s.num,
	}
	return func() tea.Msg {
		deck, err := s.api.GenerateFlashcards(context.Background(), in)
		return deckReadyMsg{Seq: seq, Deck: deck, Err: err}
	}
}

func (s *FlashcardsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case deckReadyMsg:
		if msg.Seq != s.genSeq {
			return s, nil
		}
		s.loading = false
		if msg.Err != nil {
			s.errMsg = studyapi.UserMessage(msg.Err)
			return s, nil
		}
		if msg.Deck == nil || len(msg.Deck.Cards) == 0 {
			s.errMsg = "the model returned an empty deck. Try again."
			return s, nil
		}
		s.deck = msg.Deck
		s.idx = 0
		s.back = false
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg.String())
	}
	return s, nil
}

func (s *FlashcardsScreen) handleKey(key string) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}
	if s.deck == nil {
		if key == "g" || key == "G" || key == "enter" {
			return s, s.generate()
		}
		return s, nil
	}

	switch key {
	case "space", " ", "enter":
		s.back = !s.back
	case "left", "h":
		s.gotoCard(s.idx - 1)
	case "right", "l":
		s.gotoCard(s.idx + 1)
	case "+", "=":
		s.num = clamp(s.num+cardStep, minCards, maxCards)
	case "-":
		s.num = clamp(s.num-cardStep, minCards, maxCards)
	case "g", "G":
		return s, s.generate()
	}
	return s, nil
}

// gotoCard moves between cards, always landing on the front face.
func (s *FlashcardsScreen) gotoCard(idx int) {
	last := len(s.deck.Cards) - 1
	idx = clamp(idx, 0, last)
	if idx == s.idx {
		return
	}
	s.idx = idx
	s.back = false
}

func (s *FlashcardsScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n\n  Writing %d flashcards from %q...", s.num, s.doc.DisplayName()))
	}
	if s.deck == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCould not build a deck: %s\n\nPress G to retry.", s.errMsg))
	}

	card := s.deck.Cards[s.idx]

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Card %d of %d", s.idx+1, len(s.deck.Cards))))
	b.WriteString("\n\n")

	face := "FRONT"
	text := card.Front
	faceColor := theme.Secondary
	if s.back {
		face = "BACK"
		text = card.Back
		faceColor = theme.Accent
	}

	cardWidth := min(width-12, 64)
	if cardWidth < 24 {
		cardWidth = 24
	}

	body := lipgloss.NewStyle().
		Foreground(faceColor).
		Bold(true).
		Render(face) + "\n\n" +
		lipgloss.NewStyle().
			Foreground(theme.Text).
			Width(cardWidth-6).
			Align(lipgloss.Center).
			Render(text)

	box := theme.Card.Width(cardWidth).Align(lipgloss.Center).Render(body)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, box))
	b.WriteString("\n\n")

	hint := "Press Space to reveal the back"
	if s.back {
		hint = "Press Space to flip back over"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Italic(true).
		Render(hint))

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

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
