package quiz

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Mode selects the question mix requested at generation time.
type Mode string

const (
	// ModeChoice requests multiple-choice questions only.
	ModeChoice Mode = "options"

	// ModeTheory requests short written-answer questions only.
	ModeTheory Mode = "theory"

	// ModeMixed requests roughly half of each.
	ModeMixed Mode = "both"
)

// Kind describes how a single question is answered.
type Kind string

const (
	// KindChoice means the learner picks one lettered option.
	KindChoice Kind = "choice"

	// KindTheory means the learner writes a short free-text answer.
	KindTheory Kind = "theory"
)

// ID is a question identifier as relayed by the backend. Generated payloads
// normally carry small numeric ids, but the shape originates from a language
// model, so decoding tolerates a quoted id instead of failing the whole quiz.
type ID string

// UnmarshalJSON accepts a JSON number, string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Int returns the id as an integer when it is numeric.
func (id ID) Int() (int64, bool) {
	if id == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Option is one selectable answer for a multiple-choice question.
type Option struct {
	// Label is the option letter, "A" through "D".
	Label string `json:"label"`

	// Text is the option body shown next to the label.
	Text string `json:"text"`
}

// Question is one quiz question as produced by a generation request.
type Question struct {
	// ID is the backend-assigned identifier. May be absent or non-numeric,
	// in which case responses key on the question's position instead.
	ID ID `json:"id"`

	// Text is the question prompt.
	Text string `json:"question"`

	// Options is populated only for multiple-choice questions.
	Options []Option `json:"options,omitempty"`

	// Answer is the correct option label for multiple-choice questions and
	// the reference answer for written ones. May be empty.
	Answer string `json:"answer,omitempty"`

	// Explanation is a short rationale shown in the post-submit review.
	Explanation string `json:"explanation,omitempty"`
}

// Kind reports how the question is answered, derived from its shape: a
// question with options is multiple choice, one without is written.
func (q Question) Kind() Kind {
	if len(q.Options) > 0 {
		return KindChoice
	}
	return KindTheory
}

// Quiz is one generated quiz instance.
type Quiz struct {
	// Title is a short display title derived from the source document.
	Title string `json:"title"`

	// Questions is non-empty for any installed quiz.
	Questions []Question `json:"questions"`

	// Provider names the model provider that generated the quiz.
	Provider string `json:"provider,omitempty"`
}

// Score is the outcome of grading one submission.
type Score struct {
	// Correct is the number of questions that passed grading.
	Correct int

	// Total is the number of questions in the quiz.
	Total int

	// Percent is round(100 * Correct / Total), 0 for an empty quiz.
	Percent int
}
