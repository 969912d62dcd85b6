package studyapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybuddy/studybuddy/internal/mindmap"
	"github.com/studybuddy/studybuddy/internal/quiz"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL + "/api", Timeout: 5 * time.Second}, "test-token")
}

func TestGenerateQuiz(t *testing.T) {
	payload := `{
		"file_ids": ["doc1"],
		"quiz": {
			"title": "Cell Biology",
			"questions": [
				{"id": 1, "question": "Pick one", "options": [
					{"label": "A", "text": "first"}, {"label": "B", "text": "second"},
					{"label": "C", "text": "third"}, {"label": "D", "text": "fourth"}
				], "answer": "B", "explanation": "because"},
				{"id": "2", "question": "Explain osmosis", "options": [], "answer": "water moves across a membrane"}
			]
		},
		"provider": "ollama"
	}`

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/quizzes", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req struct {
			FileIDs      []string `json:"file_ids"`
			NumQuestions int      `json:"num_questions"`
			Mode         string   `json:"mode"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"doc1"}, req.FileIDs)
		assert.Equal(t, 2, req.NumQuestions)
		assert.Equal(t, "both", req.Mode)

		_, _ = w.Write([]byte(payload))
	})

	q, err := c.GenerateQuiz(context.Background(), GenerateQuizInput{
		DocumentID:   "doc1",
		NumQuestions: 2,
		Mode:         quiz.ModeMixed,
	})
	require.NoError(t, err)

	assert.Equal(t, "Cell Biology", q.Title)
	assert.Equal(t, "ollama", q.Provider)
	require.Len(t, q.Questions, 2)

	// Numeric and quoted ids both decode; kinds derive from options.
	assert.Equal(t, quiz.ID("1"), q.Questions[0].ID)
	assert.Equal(t, quiz.KindChoice, q.Questions[0].Kind())
	assert.Equal(t, quiz.ID("2"), q.Questions[1].ID)
	assert.Equal(t, quiz.KindTheory, q.Questions[1].Kind())
}

func TestGenerateQuizRejectsMalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing quiz", `{"provider": "ollama"}`},
		{"empty questions", `{"quiz": {"title": "t", "questions": []}}`},
		{"question without prompt", `{"quiz": {"title": "t", "questions": [{"id": 1}]}}`},
		{"not json", `<html>gateway error</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GenerateQuiz(context.Background(), GenerateQuizInput{DocumentID: "doc1", NumQuestions: 1, Mode: quiz.ModeChoice})
			var payloadErr *ErrInvalidPayload
			require.ErrorAs(t, err, &payloadErr)
		})
	}
}

func TestUnauthorized(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Missing bearer token"}`))
	})

	_, err := c.ListDocuments(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBackendErrorStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail": "No quiz provider configured"}`))
	})

	_, err := c.Summarize(context.Background(), SummarizeInput{DocumentID: "doc1", Length: LengthShort})
	var statusErr *ErrStatus
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
	assert.Equal(t, "No quiz provider configured", statusErr.Detail)
}

func TestBackendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // nothing listening

	c := New(Config{BaseURL: server.URL + "/api", Timeout: time.Second}, "")
	_, err := c.ListDocuments(context.Background())
	var unavailable *ErrUnavailable
	require.ErrorAs(t, err, &unavailable)
}

func TestGradeFreeText(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quizzes/grade", r.URL.Path)

		var req struct {
			Items []struct {
				ID       int    `json:"id"`
				Question string `json:"question"`
				Answer   string `json:"answer_text"`
			} `json:"items"`
			Responses map[string]string `json:"responses"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Items, 2)
		assert.Equal(t, 3, req.Items[0].ID)
		assert.Equal(t, "Explain osmosis", req.Items[0].Question)
		assert.Equal(t, "water moves across a membrane", req.Items[0].Answer)
		assert.Equal(t, map[string]string{"3": "water stuff", "9": ""}, req.Responses)

		_, _ = w.Write([]byte(`{"grades": [{"id": 3, "score": 1.2}, {"id": 9, "score": -0.5}], "provider": "openai"}`))
	})

	scores, err := c.GradeFreeText(context.Background(), []quiz.GradeItem{
		{Key: "3", Prompt: "Explain osmosis", Reference: "water moves across a membrane", Response: "water stuff"},
		{Key: "9", Prompt: "Define entropy", Reference: "disorder", Response: ""},
	})
	require.NoError(t, err)

	// Scores come back clamped to [0, 1].
	assert.Equal(t, map[string]float64{"3": 1, "9": 0}, scores)
}

func TestGradeFreeTextRejectsNonNumericKey(t *testing.T) {
	c := testClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("no request should be sent")
	})

	_, err := c.GradeFreeText(context.Background(), []quiz.GradeItem{{Key: "abc"}})
	require.Error(t, err)
}

func TestListDocuments(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/files", r.URL.Path)
		_, _ = w.Write([]byte(`{"files": [
			{"id": "a1", "file_name": "notes_pdf", "original_file_name": "Notes.pdf", "processing_status": "completed"},
			{"id": "b2", "file_name": "scan_png", "original_file_name": "", "processing_status": "processing"}
		]}`))
	})

	docs, err := c.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "Notes.pdf", docs[0].DisplayName())
	assert.True(t, docs[0].Ready())
	assert.Equal(t, "scan_png", docs[1].DisplayName())
	assert.False(t, docs[1].Ready())
}

func TestGenerateMindmap(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mindmaps", r.URL.Path)

		var req struct {
			FileID   string `json:"file_id"`
			MaxDepth int    `json:"max_depth"`
			MaxNodes int    `json:"max_nodes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "doc1", req.FileID)
		assert.Equal(t, 4, req.MaxDepth)
		assert.Equal(t, 40, req.MaxNodes)

		_, _ = w.Write([]byte(`{
			"file_id": "doc1",
			"provider": "gemini",
			"mindmap": {
				"title": "Cell Energy",
				"root": {"id": "root", "label": "Cell Energy", "children": [
					{"id": "n1", "label": "Photosynthesis", "children": []}
				]}
			}
		}`))
	})

	m, err := c.GenerateMindmap(context.Background(), GenerateMindmapInput{DocumentID: "doc1", MaxDepth: 4, MaxNodes: 40})
	require.NoError(t, err)

	assert.Equal(t, "Cell Energy", m.Title)
	assert.Equal(t, "gemini", m.Provider)
	require.NotNil(t, m.Root)
	require.Len(t, m.Root.Children, 1)
	assert.Equal(t, "Photosynthesis", m.Root.Children[0].Label)
}

func TestGenerateMindmapRejectsMalformedPayload(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		// Node missing its id.
		_, _ = w.Write([]byte(`{"mindmap": {"title": "t", "root": {"label": "no id"}}}`))
	})

	_, err := c.GenerateMindmap(context.Background(), GenerateMindmapInput{DocumentID: "doc1", MaxDepth: 4, MaxNodes: 40})
	var payloadErr *ErrInvalidPayload
	require.ErrorAs(t, err, &payloadErr)
}

func TestExplainTopic(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mindmaps/summary", r.URL.Path)

		var req struct {
			FileID string `json:"file_id"`
			Topic  string `json:"topic"`
			Size   string `json:"size"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "doc1", req.FileID)
		assert.Equal(t, "Photosynthesis", req.Topic)
		assert.Equal(t, "medium", req.Size)

		_, _ = w.Write([]byte(`{"file_id": "doc1", "topic": "Photosynthesis", "provider": "ollama", "summary": "Plants convert light."}`))
	})

	text, err := c.ExplainTopic(context.Background(), ExplainTopicInput{
		DocumentID: "doc1",
		Topic:      "Photosynthesis",
		Size:       mindmap.SizeMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, "Plants convert light.", text)
}

func TestGenerateFlashcards(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flashcards", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"file_ids": ["doc1"],
			"flashcards": {"title": "Cells", "cards": [
				{"id": 1, "front": "Mitochondria", "back": "Powerhouse of the cell"}
			]},
			"provider": "ollama"
		}`))
	})

	deck, err := c.GenerateFlashcards(context.Background(), GenerateFlashcardsInput{DocumentID: "doc1", NumCards: 1})
	require.NoError(t, err)

	assert.Equal(t, "Cells", deck.Title)
	assert.Equal(t, "ollama", deck.Provider)
	require.Len(t, deck.Cards, 1)
	assert.Equal(t, "Mitochondria", deck.Cards[0].Front)
}

func TestGenerateFlashcardsRejectsEmptyDeck(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"flashcards": {"title": "Cells", "cards": []}}`))
	})

	_, err := c.GenerateFlashcards(context.Background(), GenerateFlashcardsInput{DocumentID: "doc1", NumCards: 5})
	var payloadErr *ErrInvalidPayload
	require.ErrorAs(t, err, &payloadErr)
}

func TestSummarize(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/summaries", r.URL.Path)

		var req struct {
			FileID string `json:"file_id"`
			Focus  string `json:"focus"`
			Length string `json:"length"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "membranes", req.Focus)
		assert.Equal(t, "long", req.Length)

		_, _ = w.Write([]byte(`{"file_id": "doc1", "summary": "A detailed summary.", "provider": "openai"}`))
	})

	text, err := c.Summarize(context.Background(), SummarizeInput{DocumentID: "doc1", Focus: "membranes", Length: LengthLong})
	require.NoError(t, err)
	assert.Equal(t, "A detailed summary.", text)
}

func TestMockFIFOAndCallLog(t *testing.T) {
	m := NewMock()
	m.QueueQuiz(&quiz.Quiz{Title: "first"}, nil)
	m.QueueQuiz(nil, errors.New("boom"))

	q, err := m.GenerateQuiz(context.Background(), GenerateQuizInput{DocumentID: "doc1"})
	require.NoError(t, err)
	assert.Equal(t, "first", q.Title)

	_, err = m.GenerateQuiz(context.Background(), GenerateQuizInput{DocumentID: "doc1"})
	require.EqualError(t, err, "boom")

	// Exhausted queue answers unavailable.
	_, err = m.GenerateQuiz(context.Background(), GenerateQuizInput{DocumentID: "doc1"})
	var unavailable *ErrUnavailable
	require.ErrorAs(t, err, &unavailable)

	assert.Equal(t, 3, m.CallCount("GenerateQuiz"))
	assert.Equal(t, 0, m.CallCount("ListDocuments"))
	require.NotNil(t, m.LastCall("GenerateQuiz"))
}
