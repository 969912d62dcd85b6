package flashcards

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/studybuddy/studybuddy/internal/studyapi"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testDoc() studyapi.Document {
	return studyapi.Document{
		ID:           "doc1",
		OriginalName: "biology.pdf",
		Status:       studyapi.StatusCompleted,
	}
}

func testDeck() *studyapi.Deck {
	return &studyapi.Deck{
		Title: "Cell Biology",
		Cards: []studyapi.Card{
			{Front: "Mitochondrion", Back: "Produces ATP through cellular respiration."},
			{Front: "Ribosome", Back: "Assembles proteins from mRNA."},
			{Front: "Chloroplast", Back: "Site of photosynthesis."},
		},
	}
}

// installDeck drives the generate flow to completion.
func installDeck(t *testing.T, s *FlashcardsScreen, api *studyapi.Mock, deck *studyapi.Deck) {
	t.Helper()
	api.QueueDeck(deck, nil)
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("Init returned no command")
	}
	scr, _ := s.Update(cmd())
	ss := scr.(*FlashcardsScreen)
	if ss.deck == nil {
		t.Fatalf("deck not installed: %q", ss.errMsg)
	}
}

func TestFlashcardsScreen_GenerateRequestsDefaultCount(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	installDeck(t, s, api, testDeck())

	call := api.LastCall("GenerateFlashcards")
	if call == nil {
		t.Fatal("GenerateFlashcards was not called")
	}
	in := call.Input.(studyapi.GenerateFlashcardsInput)
	if in.DocumentID != "doc1" || in.NumCards != defaultCards {
		t.Errorf("input = %+v", in)
	}
	if s.idx != 0 || s.back {
		t.Errorf("expected first card front, got idx=%d back=%v", s.idx, s.back)
	}
}

func TestFlashcardsScreen_FlipTogglesFace(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	installDeck(t, s, api, testDeck())

	s.Update(keyPress(' '))
	if !s.back {
		t.Error("space did not flip to the back")
	}
	s.Update(specialKey(tea.KeyEnter))
	if s.back {
		t.Error("enter did not flip to the front")
	}
}

func TestFlashcardsScreen_NavigationResetsToFront(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	installDeck(t, s, api, testDeck())

	s.Update(keyPress(' '))
	s.Update(specialKey(tea.KeyRight))
	if s.idx != 1 {
		t.Errorf("idx = %d, want 1", s.idx)
	}
	if s.back {
		t.Error("moving to the next card should show its front")
	}

	s.Update(keyPress('l'))
	s.Update(keyPress('h'))
	if s.idx != 1 {
		t.Errorf("idx = %d, want 1 after l then h", s.idx)
	}
}

func TestFlashcardsScreen_NavigationClampsAtEnds(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	installDeck(t, s, api, testDeck())

	s.Update(specialKey(tea.KeyLeft))
	if s.idx != 0 {
		t.Errorf("idx = %d, want 0 at the start", s.idx)
	}

	for i := 0; i < 10; i++ {
		s.Update(specialKey(tea.KeyRight))
	}
	if s.idx != 2 {
		t.Errorf("idx = %d, want last card", s.idx)
	}

	// Flipping on the last card must survive a clamped move.
	s.Update(keyPress(' '))
	s.Update(specialKey(tea.KeyRight))
	if !s.back {
		t.Error("clamped move should not reset the face")
	}
}

func TestFlashcardsScreen_DeckSizeKnob(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	installDeck(t, s, api, testDeck())

	s.Update(keyPress('+'))
	if s.num != defaultCards+cardStep {
		t.Errorf("num = %d after +", s.num)
	}
	s.Update(keyPress('-'))
	s.Update(keyPress('-'))
	if s.num != defaultCards-cardStep {
		t.Errorf("num = %d after + then - -", s.num)
	}

	api.QueueDeck(testDeck(), nil)
	_, cmd := s.Update(keyPress('g'))
	if cmd == nil {
		t.Fatal("g did not regenerate")
	}
	s.Update(cmd())

	in := api.LastCall("GenerateFlashcards").Input.(studyapi.GenerateFlashcardsInput)
	if in.NumCards != defaultCards-cardStep {
		t.Errorf("regenerate requested %d cards, want %d", in.NumCards, defaultCards-cardStep)
	}
}

func TestFlashcardsScreen_FailureThenRetry(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())

	api.QueueDeck(nil, errors.New("model offline"))
	cmd := s.Init()
	s.Update(cmd())
	if s.errMsg == "" {
		t.Fatal("expected an error message")
	}

	api.QueueDeck(testDeck(), nil)
	_, retry := s.Update(keyPress('g'))
	if retry == nil {
		t.Fatal("g did not retry")
	}
	s.Update(retry())
	if s.deck == nil || s.errMsg != "" {
		t.Errorf("retry did not install the deck: %q", s.errMsg)
	}
}

func TestFlashcardsScreen_EmptyDeckIsAnError(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())

	api.QueueDeck(&studyapi.Deck{Title: "Empty"}, nil)
	cmd := s.Init()
	s.Update(cmd())
	if s.deck != nil {
		t.Error("an empty deck should not be installed")
	}
	if s.errMsg == "" {
		t.Error("expected an error message for an empty deck")
	}
}

func TestFlashcardsScreen_StaleDeckIgnored(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	installDeck(t, s, api, testDeck())
	firstSeq := s.genSeq

	s.Update(keyPress('g'))
	if !s.loading {
		t.Fatal("regenerate did not enter loading")
	}

	replaced := testDeck()
	replaced.Title = "Stale"
	s.Update(deckReadyMsg{Seq: firstSeq, Deck: replaced})
	if !s.loading {
		t.Error("a stale reply should not clear loading")
	}
	if s.deck.Title == "Stale" {
		t.Error("a stale reply should not replace the deck")
	}
}

func TestFlashcardsScreen_ViewSmoke(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())

	s.loading = true
	if s.View(80, 24) == "" {
		t.Error("loading view is empty")
	}

	s.loading = false
	s.errMsg = "backend unreachable"
	if s.View(80, 24) == "" {
		t.Error("error view is empty")
	}

	installDeck(t, s, api, testDeck())
	if s.View(80, 24) == "" {
		t.Error("front view is empty")
	}
	s.back = true
	if s.View(80, 24) == "" {
		t.Error("back view is empty")
	}
}
