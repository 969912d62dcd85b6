package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// PassThreshold is the minimum remote score at which a written answer counts
// as correct. A product-tuning constant, fixed for now.
const PassThreshold = 0.65

// FreeTextGrader scores written answers remotely. One call carries every
// written item of a submission; the returned map is keyed by each item's
// response key with scores in [0, 1].
type FreeTextGrader interface {
	GradeFreeText(ctx context.Context, items []GradeItem) (map[string]float64, error)
}

// GradeItem is one written answer submitted for remote scoring.
type GradeItem struct {
	// Key is the question's canonical response key.
	Key string

	// Prompt is the question text, included so the grader can judge the
	// answer in context.
	Prompt string

	// Reference is the question's reference answer from generation, relayed
	// so the grader has something to compare against. May be empty.
	Reference string

	// Response is the learner's trimmed answer. May be empty on a timeout
	// submission.
	Response string
}

// Grader computes a submission's score from the current responses.
type Grader struct {
	// FreeText scores written answers. Required whenever the quiz contains
	// written questions.
	FreeText FreeTextGrader
}

// Grade scores every question in the quiz against the responses.
// Multiple-choice questions match locally on the exact trimmed label.
// Written answers go to the remote grader in a single batch and pass at
// PassThreshold; a key the grader leaves unscored counts as zero. Any
// remote failure fails the whole grade and no partial score is produced.
func (g *Grader) Grade(ctx context.Context, quiz *Quiz, responses *ResponseSet) (Score, error) {
	if quiz == nil {
		return Score{}, errors.New("no quiz to grade")
	}

	var items []GradeItem
	correct := 0
	total := len(quiz.Questions)

	for i, q := range quiz.Questions {
		key := KeyFor(q, i)
		answer := strings.TrimSpace(responses.Answer(key))
		switch q.Kind() {
		case KindChoice:
			// A payload that omits the answer key can never score; a
			// blank response must not match blank-against-blank.
			if q.Answer != "" && answer == q.Answer {
				correct++
			}
		case KindTheory:
			items = append(items, GradeItem{Key: key, Prompt: q.Text, Reference: q.Answer, Response: answer})
		}
	}

	if len(items) > 0 {
		if g.FreeText == nil {
			return Score{}, errors.New("quiz has written questions but no grader is configured")
		}
		scores, err := g.FreeText.GradeFreeText(ctx, items)
		if err != nil {
			return Score{}, fmt.Errorf("grade written answers: %w", err)
		}
		for _, item := range items {
			if scores[item.Key] >= PassThreshold {
				correct++
			}
		}
	}

	return Score{Correct: correct, Total: total, Percent: percentOf(correct, total)}, nil
}

func percentOf(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
