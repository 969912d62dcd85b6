package studyapi

import (
	"context"
	"sync"

	"github.com/studybuddy/studybuddy/internal/mindmap"
	"github.com/studybuddy/studybuddy/internal/quiz"
)

// MockCall records one operation invoked on the Mock.
type MockCall struct {
	Op    string
	Input any
}

type canned[T any] struct {
	val T
	err error
}

// Mock is a deterministic Service for tests. Each operation pops canned
// results in FIFO order and records its call; an exhausted queue answers
// ErrUnavailable so a test that over-calls fails loudly.
type Mock struct {
	mu    sync.Mutex
	Calls []MockCall

	docs     []canned[[]Document]
	quizzes  []canned[*quiz.Quiz]
	scores   []canned[map[string]float64]
	maps     []canned[*mindmap.Map]
	explains []canned[string]
	decks    []canned[*Deck]
	sums     []canned[string]
}

var _ Service = (*Mock)(nil)

// NewMock returns an empty Mock; queue results before use.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) QueueDocuments(docs []Document, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, canned[[]Document]{docs, err})
}

func (m *Mock) QueueQuiz(q *quiz.Quiz, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes = append(m.quizzes, canned[*quiz.Quiz]{q, err})
}

func (m *Mock) QueueScores(scores map[string]float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, canned[map[string]float64]{scores, err})
}

func (m *Mock) QueueMindmap(mm *mindmap.Map, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maps = append(m.maps, canned[*mindmap.Map]{mm, err})
}

func (m *Mock) QueueExplanation(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.explains = append(m.explains, canned[string]{text, err})
}

func (m *Mock) QueueDeck(d *Deck, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decks = append(m.decks, canned[*Deck]{d, err})
}

func (m *Mock) QueueSummary(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sums = append(m.sums, canned[string]{text, err})
}

// CallCount returns how many times the named operation was invoked.
func (m *Mock) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// LastCall returns the most recent call for the named operation, or nil.
func (m *Mock) LastCall(op string) *MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Calls) - 1; i >= 0; i-- {
		if m.Calls[i].Op == op {
			c := m.Calls[i]
			return &c
		}
	}
	return nil
}

func pop[T any](m *Mock, op string, input any, queue *[]canned[T]) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Op: op, Input: input})

	if len(*queue) == 0 {
		var zero T
		return zero, &ErrUnavailable{}
	}
	next := (*queue)[0]
	*queue = (*queue)[1:]
	return next.val, next.err
}

func (m *Mock) ListDocuments(_ context.Context) ([]Document, error) {
	return pop(m, "ListDocuments", nil, &m.docs)
}

func (m *Mock) GenerateQuiz(_ context.Context, in GenerateQuizInput) (*quiz.Quiz, error) {
	return pop(m, "GenerateQuiz", in, &m.quizzes)
}

func (m *Mock) GradeFreeText(_ context.Context, items []quiz.GradeItem) (map[string]float64, error) {
	return pop(m, "GradeFreeText", items, &m.scores)
}

func (m *Mock) GenerateMindmap(_ context.Context, in GenerateMindmapInput) (*mindmap.Map, error) {
	return pop(m, "GenerateMindmap", in, &m.maps)
}

func (m *Mock) ExplainTopic(_ context.Context, in ExplainTopicInput) (string, error) {
	return pop(m, "ExplainTopic", in, &m.explains)
}

func (m *Mock) GenerateFlashcards(_ context.Context, in GenerateFlashcardsInput) (*Deck, error) {
	return pop(m, "GenerateFlashcards", in, &m.decks)
}

func (m *Mock) Summarize(_ context.Context, in SummarizeInput) (string, error) {
	return pop(m, "Summarize", in, &m.sums)
}
