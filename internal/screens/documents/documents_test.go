package documents

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/studybuddy/studybuddy/internal/router"
	"github.com/studybuddy/studybuddy/internal/screens/hub"
	"github.com/studybuddy/studybuddy/internal/studyapi"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testDocs() []studyapi.Document {
	return []studyapi.Document{
		{ID: "doc1", OriginalName: "biology.pdf", Status: studyapi.StatusCompleted},
		{ID: "doc2", OriginalName: "chemistry.pdf", Status: studyapi.StatusProcessing},
		{ID: "doc3", OriginalName: "physics.pdf", Status: studyapi.StatusCompleted},
	}
}

// loadedScreen builds a screen with the given list installed.
func loadedScreen(t *testing.T, api *studyapi.Mock, docs []studyapi.Document) *DocumentsScreen {
	t.Helper()
	api.QueueDocuments(docs, nil)
	s := New(api, nil)
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("Init returned no command")
	}
	s.Update(cmd())
	if !s.loaded {
		t.Fatalf("list not loaded: %q", s.errMsg)
	}
	return s
}

func TestDocumentsScreen_LoadsList(t *testing.T) {
	api := studyapi.NewMock()
	s := loadedScreen(t, api, testDocs())

	if len(s.docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(s.docs))
	}
	if s.cursor != 0 {
		t.Errorf("cursor = %d, want 0", s.cursor)
	}
}

func TestDocumentsScreen_OpensReadyDocument(t *testing.T) {
	api := studyapi.NewMock()
	s := loadedScreen(t, api, testDocs())

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter on a ready document produced no command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*hub.HubScreen); !ok {
		t.Errorf("pushed %T, want *hub.HubScreen", msg.Screen)
	}
}

func TestDocumentsScreen_RefusesUnprocessedDocument(t *testing.T) {
	api := studyapi.NewMock()
	s := loadedScreen(t, api, testDocs())

	s.Update(keyPress('j'))
	if s.docs[s.cursor].ID != "doc2" {
		t.Fatalf("cursor on %s, want doc2", s.docs[s.cursor].ID)
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("enter on a processing document must not push a screen")
	}
	if s.notice == "" {
		t.Error("expected a notice explaining the refusal")
	}

	// Moving the cursor clears the notice.
	s.Update(keyPress('j'))
	if s.notice != "" {
		t.Error("navigation should clear the notice")
	}
}

func TestDocumentsScreen_LoadFailureThenRefresh(t *testing.T) {
	api := studyapi.NewMock()
	api.QueueDocuments(nil, errors.New("connection refused"))
	s := New(api, nil)
	cmd := s.Init()
	s.Update(cmd())
	if s.errMsg == "" {
		t.Fatal("expected an error message")
	}

	api.QueueDocuments(testDocs(), nil)
	_, retry := s.Update(keyPress('r'))
	if retry == nil {
		t.Fatal("r did not refresh")
	}
	s.Update(retry())
	if s.errMsg != "" || len(s.docs) != 3 {
		t.Errorf("refresh did not recover: %q", s.errMsg)
	}
}

func TestDocumentsScreen_CursorResetAfterShorterRefresh(t *testing.T) {
	api := studyapi.NewMock()
	s := loadedScreen(t, api, testDocs())

	s.Update(keyPress('j'))
	s.Update(keyPress('j'))
	if s.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", s.cursor)
	}

	api.QueueDocuments(testDocs()[:1], nil)
	_, cmd := s.Update(keyPress('R'))
	s.Update(cmd())
	if s.cursor != 0 {
		t.Errorf("cursor = %d after shorter refresh, want 0", s.cursor)
	}
}

func TestDocumentsScreen_NavigationClamps(t *testing.T) {
	api := studyapi.NewMock()
	s := loadedScreen(t, api, testDocs())

	s.Update(specialKey(tea.KeyUp))
	if s.cursor != 0 {
		t.Errorf("cursor = %d, want 0 at the top", s.cursor)
	}
	for i := 0; i < 10; i++ {
		s.Update(specialKey(tea.KeyDown))
	}
	if s.cursor != 2 {
		t.Errorf("cursor = %d, want last row", s.cursor)
	}
}

func TestDocumentsScreen_ViewSmoke(t *testing.T) {
	api := studyapi.NewMock()
	s := New(api, nil)
	if s.View(80, 24) == "" {
		t.Error("loading view is empty")
	}

	s.loaded = true
	if s.View(80, 24) == "" {
		t.Error("empty-list view is empty")
	}

	s.errMsg = "backend unreachable"
	if s.View(80, 24) == "" {
		t.Error("error view is empty")
	}

	s.errMsg = ""
	s.docs = testDocs()
	if s.View(80, 24) == "" {
		t.Error("list view is empty")
	}
}
