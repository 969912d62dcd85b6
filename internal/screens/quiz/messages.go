package quiz

import (
	"time"

	qz "github.com/studybuddy/studybuddy/internal/quiz"
)

// quizReadyMsg is sent when a generation request finishes. Seq ties the
// result to the request that issued it so a stale reply cannot land in a
// newer session.
type quizReadyMsg struct {
	Seq  int
	Quiz *qz.Quiz
	Err  error
}

// gradeDoneMsg is sent when a grading request finishes.
type gradeDoneMsg struct {
	Seq   int
	Score qz.Score
	Err   error
}

// timerTickMsg is sent every second to drive the countdown.
type timerTickMsg time.Time

// attemptSavedMsg is sent after the attempt row is written to history.
type attemptSavedMsg struct {
	Err error
}
