package summary

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

func typeText(s *SummaryScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

// summarize drives the form to the button and runs the request.
func summarize(t *testing.T, s *SummaryScreen, api *studyapi.Mock, text string, err error) {
	t.Helper()
	api.QueueSummary(text, err)
	for s.field != fieldGo {
		s.Update(specialKey(tea.KeyDown))
	}
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter on the button did not summarize")
	}
	s.Update(cmd())
}

func TestSummaryScreen_DefaultsToMedium(t *testing.T) {
	s := New(studyapi.NewMock(), testDoc())
	if s.length != studyapi.LengthMedium {
		t.Errorf("length = %s, want medium", s.length)
	}
	if s.field != fieldLength {
		t.Errorf("field = %d, want the length row", s.field)
	}
}

func TestSummaryScreen_LengthCycles(t *testing.T) {
	s := New(studyapi.NewMock(), testDoc())

	s.Update(specialKey(tea.KeyRight))
	if s.length != studyapi.LengthLong {
		t.Errorf("length = %s after right, want long", s.length)
	}
	s.Update(specialKey(tea.KeyRight))
	if s.length != studyapi.LengthShort {
		t.Errorf("length = %s after wrap, want short", s.length)
	}
	s.Update(specialKey(tea.KeyLeft))
	if s.length != studyapi.LengthLong {
		t.Errorf("length = %s after left, want long", s.length)
	}
}

func TestSummaryScreen_FocusFieldTakesTyping(t *testing.T) {
	s := New(studyapi.NewMock(), testDoc())

	s.Update(specialKey(tea.KeyDown))
	if s.field != fieldFocus {
		t.Fatalf("field = %d, want the focus row", s.field)
	}
	typeText(s, "osmosis")
	if got := s.focus.Value(); got != "osmosis" {
		t.Errorf("focus value = %q", got)
	}

	// h and l must type, not cycle the length, while editing.
	typeText(s, "h")
	if s.length != studyapi.LengthMedium {
		t.Errorf("length changed while typing: %s", s.length)
	}
}

func TestSummaryScreen_SummarizeSendsForm(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())

	s.Update(specialKey(tea.KeyRight)) // long
	s.Update(specialKey(tea.KeyDown))
	typeText(s, "  photosynthesis ")
	summarize(t, s, api, "Plants convert light into chemical energy.", nil)

	in := api.LastCall("Summarize").Input.(studyapi.SummarizeInput)
	if in.DocumentID != "doc1" || in.Length != studyapi.LengthLong || in.Focus != "photosynthesis" {
		t.Errorf("input = %+v", in)
	}
	if s.text == "" {
		t.Error("summary text was not installed")
	}
}

func TestSummaryScreen_ScrollAndNewSummary(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	summarize(t, s, api, "A summary.", nil)

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	if s.scrollOffset != 2 {
		t.Errorf("scrollOffset = %d, want 2", s.scrollOffset)
	}
	s.Update(specialKey(tea.KeyUp))
	if s.scrollOffset != 1 {
		t.Errorf("scrollOffset = %d, want 1", s.scrollOffset)
	}

	s.Update(keyPress('n'))
	if s.text != "" {
		t.Error("n did not return to the form")
	}
	if s.length != studyapi.LengthMedium {
		t.Error("settings should survive starting over")
	}
}

func TestSummaryScreen_RegenerateKeepsSettings(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	summarize(t, s, api, "First take.", nil)

	api.QueueSummary("Second take.", nil)
	_, cmd := s.Update(keyPress('g'))
	if cmd == nil {
		t.Fatal("g did not regenerate")
	}
	s.Update(cmd())
	if s.text != "Second take." {
		t.Errorf("text = %q", s.text)
	}
	if api.CallCount("Summarize") != 2 {
		t.Errorf("Summarize called %d times, want 2", api.CallCount("Summarize"))
	}
}

func TestSummaryScreen_FailureReturnsToForm(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	summarize(t, s, api, "", errors.New("no extracted text"))

	if s.text != "" {
		t.Error("a failed request should not install text")
	}
	if s.errMsg == "" {
		t.Error("expected an error message on the form")
	}

	// The form still works after a failure.
	summarize(t, s, api, "Recovered.", nil)
	if s.text != "Recovered." || s.errMsg != "" {
		t.Errorf("recovery failed: text=%q err=%q", s.text, s.errMsg)
	}
}

func TestSummaryScreen_BlankSummaryIsAnError(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	summarize(t, s, api, "   \n  ", nil)

	if s.text != "" {
		t.Error("a blank summary should not be installed")
	}
	if s.errMsg == "" {
		t.Error("expected an error message for a blank summary")
	}
}

func TestSummaryScreen_StaleReplyIgnored(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())
	summarize(t, s, api, "Current.", nil)
	staleSeq := s.genSeq

	api.QueueSummary("Fresh.", nil)
	s.Update(keyPress('g'))
	if !s.loading {
		t.Fatal("regenerate did not enter loading")
	}

	s.Update(summaryReadyMsg{Seq: staleSeq, Text: "Stale."})
	if s.text == "Stale." {
		t.Error("a stale reply replaced the text")
	}
	if !s.loading {
		t.Error("a stale reply should not clear loading")
	}
}

func TestSummaryScreen_ViewSmoke(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, testDoc())

	if s.View(80, 24) == "" {
		t.Error("form view is empty")
	}

	s.loading = true
	if s.View(80, 24) == "" {
		t.Error("loading view is empty")
	}
	s.loading = false

	summarize(t, s, api, "Verse one.\nVerse two.", nil)
	if s.View(80, 24) == "" {
		t.Error("reading view is empty")
	}
}
