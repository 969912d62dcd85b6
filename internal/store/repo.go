package store

import (
	"context"
	"time"
)

// Attempt records one finished quiz, whether the learner submitted it
// or the countdown did.
type Attempt struct {
	// ID is a generated UUID. Record fills it in when empty.
	ID string
	// DocumentID is the backend id of the source document.
	DocumentID string
	// DocumentName is the display name of the source document at the
	// time of the attempt. Kept denormalized so history survives
	// document deletion.
	DocumentName string
	// QuizTitle is the generated quiz's title.
	QuizTitle string
	// Mode is the question mode the quiz was generated with.
	Mode string
	// Questions is the number of questions in the quiz.
	Questions int
	// Correct is the number of questions graded correct.
	Correct int
	// Percent is the rounded score percentage.
	Percent int
	// AutoSubmitted marks attempts submitted by the countdown rather
	// than the learner.
	AutoSubmitted bool
	// DurationSeconds is the elapsed time from install to graded score,
	// whether or not a countdown was running.
	DurationSeconds int
	// StartedAt is when the quiz was installed.
	StartedAt time.Time
	// FinishedAt is when grading completed.
	FinishedAt time.Time
}

// Stats aggregates the stored attempt history.
type Stats struct {
	// Attempts is the total number of recorded attempts.
	Attempts int
	// AvgPercent is the mean score percentage, rounded.
	AvgPercent int
	// BestPercent is the highest score percentage.
	BestPercent int
	// AutoSubmitted counts attempts the countdown submitted.
	AutoSubmitted int
}

// AttemptRepo manages the local quiz attempt history.
type AttemptRepo interface {
	// Record stores a finished attempt.
	Record(ctx context.Context, a *Attempt) error

	// Recent returns attempts ordered newest first. limit <= 0 means
	// unlimited.
	Recent(ctx context.Context, limit int) ([]Attempt, error)

	// ForDocument returns attempts for one document, newest first.
	ForDocument(ctx context.Context, documentID string, limit int) ([]Attempt, error)

	// Stats aggregates all recorded attempts.
	Stats(ctx context.Context) (Stats, error)

	// Prune deletes all but the N most recent attempts.
	Prune(ctx context.Context, keep int) error

	// Purge deletes the entire attempt history.
	Purge(ctx context.Context) error
}
