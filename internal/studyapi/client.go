package studyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/studybuddy/studybuddy/internal/mindmap"
	"github.com/studybuddy/studybuddy/internal/quiz"
)

// Client talks to the backend over HTTP. One method per operation; every
// request carries the bearer token and runs under the caller's context.
// The client never retries: a failed call is terminal for that attempt and
// the user retries explicitly.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Service = (*Client)(nil)

// New builds a Client from cfg and the resolved bearer token. An empty
// token is allowed; the backend answers 401 and callers surface
// ErrUnauthorized.
func New(cfg Config, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ListDocuments returns the user's uploaded documents, newest first.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var payload struct {
		Files []Document `json:"files"`
	}
	if err := c.do(ctx, http.MethodGet, "/files", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Files, nil
}

// GenerateQuiz asks the backend for a fresh quiz over one document. The
// payload is validated against a schema before decoding because the shape
// is relayed model output.
func (c *Client) GenerateQuiz(ctx context.Context, in GenerateQuizInput) (*quiz.Quiz, error) {
	req := struct {
		FileIDs      []string  `json:"file_ids"`
		NumQuestions int       `json:"num_questions"`
		Mode         quiz.Mode `json:"mode"`
	}{
		FileIDs:      []string{in.DocumentID},
		NumQuestions: in.NumQuestions,
		Mode:         in.Mode,
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/quizzes", req, &raw); err != nil {
		return nil, err
	}
	if err := validatePayload(quizPayloadSchema, raw); err != nil {
		return nil, err
	}

	var payload struct {
		Quiz     *quiz.Quiz `json:"quiz"`
		Provider string     `json:"provider"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ErrInvalidPayload{Content: raw, Err: err}
	}
	q := payload.Quiz
	q.Provider = payload.Provider
	return q, nil
}

// GradeFreeText submits every written answer of one submission in a single
// batch and returns a response-key to score map with scores clamped to
// [0, 1]. Keys missing from the backend's reply are simply absent.
func (c *Client) GradeFreeText(ctx context.Context, items []quiz.GradeItem) (map[string]float64, error) {
	type wireItem struct {
		ID       int64  `json:"id"`
		Question string `json:"question"`
		Answer   string `json:"answer_text"`
	}
	req := struct {
		Items     []wireItem        `json:"items"`
		Responses map[string]string `json:"responses"`
	}{
		Items:     make([]wireItem, 0, len(items)),
		Responses: make(map[string]string, len(items)),
	}
	for _, item := range items {
		id, err := strconv.ParseInt(item.Key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("grade key %q is not numeric", item.Key)
		}
		req.Items = append(req.Items, wireItem{ID: id, Question: item.Prompt, Answer: item.Reference})
		req.Responses[item.Key] = item.Response
	}

	var payload struct {
		Grades []struct {
			ID    quiz.ID `json:"id"`
			Score float64 `json:"score"`
		} `json:"grades"`
		Provider string `json:"provider"`
	}
	if err := c.do(ctx, http.MethodPost, "/quizzes/grade", req, &payload); err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(payload.Grades))
	for _, g := range payload.Grades {
		score := g.Score
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		scores[string(g.ID)] = score
	}
	return scores, nil
}

// GenerateMindmap asks the backend for a mind map over one document. Like
// quizzes, the payload is schema-validated before use.
func (c *Client) GenerateMindmap(ctx context.Context, in GenerateMindmapInput) (*mindmap.Map, error) {
	req := struct {
		FileID   string `json:"file_id"`
		MaxDepth int    `json:"max_depth"`
		MaxNodes int    `json:"max_nodes"`
	}{in.DocumentID, in.MaxDepth, in.MaxNodes}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/mindmaps", req, &raw); err != nil {
		return nil, err
	}
	if err := validatePayload(mindmapPayloadSchema, raw); err != nil {
		return nil, err
	}

	var payload struct {
		Mindmap  *mindmap.Map `json:"mindmap"`
		Provider string       `json:"provider"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ErrInvalidPayload{Content: raw, Err: err}
	}
	m := payload.Mindmap
	m.Provider = payload.Provider
	return m, nil
}

// ExplainTopic fetches the branch explanation for one selected topic at the
// given size.
func (c *Client) ExplainTopic(ctx context.Context, in ExplainTopicInput) (string, error) {
	req := struct {
		FileID string       `json:"file_id"`
		Topic  string       `json:"topic"`
		Size   mindmap.Size `json:"size"`
	}{in.DocumentID, in.Topic, in.Size}

	var payload struct {
		Summary string `json:"summary"`
	}
	if err := c.do(ctx, http.MethodPost, "/mindmaps/summary", req, &payload); err != nil {
		return "", err
	}
	return payload.Summary, nil
}

// GenerateFlashcards asks the backend for a flashcard deck over one
// document.
func (c *Client) GenerateFlashcards(ctx context.Context, in GenerateFlashcardsInput) (*Deck, error) {
	req := struct {
		FileIDs  []string `json:"file_ids"`
		NumCards int      `json:"num_cards"`
	}{[]string{in.DocumentID}, in.NumCards}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/flashcards", req, &raw); err != nil {
		return nil, err
	}

	var payload struct {
		Flashcards *Deck  `json:"flashcards"`
		Provider   string `json:"provider"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ErrInvalidPayload{Content: raw, Err: err}
	}
	if payload.Flashcards == nil || len(payload.Flashcards.Cards) == 0 {
		return nil, &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("no cards in response")}
	}
	deck := payload.Flashcards
	deck.Provider = payload.Provider
	return deck, nil
}

// Summarize fetches a document summary at the requested length, optionally
// focused on a sub-topic.
func (c *Client) Summarize(ctx context.Context, in SummarizeInput) (string, error) {
	req := struct {
		FileID string        `json:"file_id"`
		Focus  string        `json:"focus,omitempty"`
		Length SummaryLength `json:"length"`
	}{in.DocumentID, in.Focus, in.Length}

	var payload struct {
		Summary string `json:"summary"`
	}
	if err := c.do(ctx, http.MethodPost, "/summaries", req, &payload); err != nil {
		return "", err
	}
	return payload.Summary, nil
}

// do runs one JSON round trip. Transport failures map to ErrUnavailable,
// 401 to ErrUnauthorized, other non-success statuses to ErrStatus, and a
// success body that fails to decode to ErrInvalidPayload.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ErrUnavailable{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &ErrStatus{Status: resp.StatusCode, Detail: errorDetail(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ErrInvalidPayload{Content: data, Err: err}
	}
	return nil
}

// errorDetail pulls the human-readable message out of a FastAPI error body,
// falling back to a truncated copy of the raw body.
func errorDetail(data []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
