package quiz

import (
	"strconv"
	"strings"
)

// KeyFor returns the canonical response key for a question: the numeric id
// rendered in decimal when present, otherwise the question's position in the
// quiz. Every read and write of an answer goes through this key.
func KeyFor(q Question, index int) string {
	if n, ok := q.ID.Int(); ok {
		return strconv.FormatInt(n, 10)
	}
	return strconv.Itoa(index)
}

// ResponseSet tracks one answer per question key for the active quiz.
// Values are stored exactly as typed; trimming is applied only when answers
// are read for grading or for the all-answered gate, so partially typed
// text survives editing verbatim. Entries are overwritten, never removed.
type ResponseSet struct {
	answers map[string]string
}

// NewResponseSet returns an empty response set.
func NewResponseSet() *ResponseSet {
	return &ResponseSet{answers: make(map[string]string)}
}

// Set records the answer for key, overwriting any previous value.
func (r *ResponseSet) Set(key, value string) {
	r.answers[key] = value
}

// Answer returns the stored answer for key, or "" when unanswered.
func (r *ResponseSet) Answer(key string) string {
	return r.answers[key]
}

// Len returns the number of recorded answers.
func (r *ResponseSet) Len() int {
	return len(r.answers)
}

// AllAnswered reports whether every question in the quiz has a non-blank
// answer. This is the submit-eligibility gate; only a timeout submission
// bypasses it.
func (r *ResponseSet) AllAnswered(q *Quiz) bool {
	if q == nil {
		return false
	}
	for i, question := range q.Questions {
		if strings.TrimSpace(r.answers[KeyFor(question, i)]) == "" {
			return false
		}
	}
	return true
}
