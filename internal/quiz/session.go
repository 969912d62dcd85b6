package quiz

// Phase is the lifecycle stage of a quiz session.
type Phase int

const (
	// PhaseIdle means no quiz is active. Also the phase after a failed
	// generation.
	PhaseIdle Phase = iota

	// PhaseGenerating means a generation request is in flight.
	PhaseGenerating

	// PhaseInProgress means a quiz is on screen and answers are editable.
	PhaseInProgress

	// PhaseGrading means a submission is in flight.
	PhaseGrading

	// PhaseSubmitted means the score is recorded and review is available.
	PhaseSubmitted
)

// Session owns the full lifecycle of one generated quiz: the installed
// questions, the learner's answers, the countdown, and the submission flow.
// Every transition funnels through a method here so the phase rules hold no
// matter which input event triggered them. Sessions are driven from a single
// event loop and are not safe for concurrent use.
type Session struct {
	// Phase is the current lifecycle stage.
	Phase Phase

	// Quiz is the installed quiz, nil outside in-progress/grading/submitted.
	Quiz *Quiz

	// Responses holds the learner's answers for the installed quiz.
	Responses *ResponseSet

	// Timer is the session countdown, armed only when TimerEnabled.
	Timer Timer

	// TimerEnabled arms the countdown when a quiz is installed.
	TimerEnabled bool

	// Minutes is the configured session length used when TimerEnabled.
	Minutes int

	// Score is set once grading succeeds, nil before.
	Score *Score

	// AutoSubmitted is true when the countdown, not the learner, triggered
	// the submission. Cleared only when a new quiz is generated.
	AutoSubmitted bool

	// ReviewVisible toggles the per-question review after submission.
	ReviewVisible bool

	// submitting guards against re-entrant submits while grading is in
	// flight.
	submitting bool
}

// NewSession returns an idle session with no quiz installed.
func NewSession() *Session {
	return &Session{Responses: NewResponseSet()}
}

// BeginGeneration enters the generating phase and clears all per-quiz
// state. Allowed from any phase; regenerating from submitted starts over.
func (s *Session) BeginGeneration() {
	s.Phase = PhaseGenerating
	s.Quiz = nil
	s.Responses = NewResponseSet()
	s.Timer = Timer{}
	s.Score = nil
	s.AutoSubmitted = false
	s.ReviewVisible = false
	s.submitting = false
}

// FailGeneration returns to idle with no quiz installed.
func (s *Session) FailGeneration() {
	if s.Phase != PhaseGenerating {
		return
	}
	s.Phase = PhaseIdle
}

// InstallQuiz installs a freshly generated quiz and enters in-progress,
// arming the countdown when enabled.
func (s *Session) InstallQuiz(q *Quiz) {
	if s.Phase != PhaseGenerating {
		return
	}
	s.Quiz = q
	s.Responses = NewResponseSet()
	s.Timer = Timer{}
	s.Score = nil
	s.AutoSubmitted = false
	s.ReviewVisible = false
	s.submitting = false
	s.Phase = PhaseInProgress
	if s.TimerEnabled {
		s.Timer.Start(MinutesToSeconds(float64(s.Minutes)))
	}
}

// SetAnswer records an answer while the quiz is editable. Writes in any
// other phase are dropped, so a submitted quiz can no longer change.
func (s *Session) SetAnswer(key, value string) {
	if s.Phase != PhaseInProgress {
		return
	}
	s.Responses.Set(key, value)
}

// CanSubmit reports whether an unforced submit would be accepted now.
func (s *Session) CanSubmit() bool {
	return s.Phase == PhaseInProgress && !s.submitting && s.Responses.AllAnswered(s.Quiz)
}

// BeginSubmit tries to enter the grading phase. An unforced submit requires
// every question answered; a forced (timeout) submit skips that gate. The
// countdown stops here so a later grading failure leaves it halted. Returns
// false when the submit was refused or one is already in flight, in which
// case no grading call may be issued.
func (s *Session) BeginSubmit(forced bool) bool {
	if s.Phase != PhaseInProgress || s.submitting {
		return false
	}
	if !forced && !s.Responses.AllAnswered(s.Quiz) {
		return false
	}
	s.submitting = true
	s.Phase = PhaseGrading
	s.Timer.Stop()
	return true
}

// CompleteGrading records the score and enters submitted. Review starts
// hidden.
func (s *Session) CompleteGrading(score Score) {
	if s.Phase != PhaseGrading {
		return
	}
	sc := score
	s.Score = &sc
	s.Phase = PhaseSubmitted
	s.ReviewVisible = false
	s.submitting = false
	s.Timer.Stop()
}

// FailGrading returns to in-progress so the learner can fix up answers and
// retry. No partial score is recorded and the countdown is not restarted;
// only a new quiz re-arms it.
func (s *Session) FailGrading() {
	if s.Phase != PhaseGrading {
		return
	}
	s.Phase = PhaseInProgress
	s.submitting = false
}

// ToggleReview flips the per-question review once submitted.
func (s *Session) ToggleReview() {
	if s.Phase != PhaseSubmitted {
		return
	}
	s.ReviewVisible = !s.ReviewVisible
}

// Tick consumes one countdown second. It returns true exactly once per
// armed timer: when the countdown reaches zero and the session must force a
// submission. The caller follows up with BeginSubmit(true) and the grading
// call.
func (s *Session) Tick() (forceSubmit bool) {
	if s.Phase != PhaseInProgress {
		return false
	}
	if !s.Timer.Tick() {
		return false
	}
	s.AutoSubmitted = true
	return true
}

// RecommendedMinutes suggests a session length for a quiz request: one
// minute per multiple-choice question, two per written question. Mixed
// requests assume the generator splits ceil(n/2) multiple choice and the
// rest written.
func RecommendedMinutes(n int, mode Mode) int {
	if n < 0 {
		n = 0
	}
	switch mode {
	case ModeChoice:
		return n
	case ModeTheory:
		return 2 * n
	default:
		choice := (n + 1) / 2
		return choice + 2*(n-choice)
	}
}
