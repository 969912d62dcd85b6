package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	qz "github.com/studybuddy/studybuddy/internal/quiz"
	"github.com/studybuddy/studybuddy/internal/router"
	"github.com/studybuddy/studybuddy/internal/screen"
	"github.com/studybuddy/studybuddy/internal/store"
	"github.com/studybuddy/studybuddy/internal/studyapi"
	"github.com/studybuddy/studybuddy/internal/ui/components"
	"github.com/studybuddy/studybuddy/internal/ui/layout"
)

// setupField enumerates the rows of the pre-quiz setup form.
type setupField int

const (
	fieldQuestions setupField = iota
	fieldMode
	fieldTimer
	fieldMinutes
	fieldStart
)

const (
	minQuestions = 1
	maxQuestions = 20
	minMinutes   = 1
	maxMinutes   = 120

	// historyKeep caps the stored attempt history.
	historyKeep = 500
)

// QuizScreen drives one quiz over one document: the setup form, the
// generation wait, answering, grading and the score with its review.
// All lifecycle rules live in the session; the screen translates key
// and message events into session transitions.
type QuizScreen struct {
	api      studyapi.Service
	attempts store.AttemptRepo
	doc      studyapi.Document

	session *qz.Session

	// Setup form state. Minutes follows the recommendation for the
	// configured size until the learner adjusts it by hand.
	field         setupField
	numQuestions  int
	mode          qz.Mode
	manualMinutes bool

	// Play state for the question under the cursor.
	current   int
	choice    components.ChoiceList
	input     components.TextInput
	startedAt time.Time

	confirmQuit  bool
	reviewScroll int
	errMsg       string

	// genSeq stamps generation and grading commands so replies from an
	// abandoned run are dropped.
	genSeq int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.ContextProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// New creates a quiz screen for the given document.
func New(api studyapi.Service, attempts store.AttemptRepo, doc studyapi.Document) *QuizScreen {
	s := &QuizScreen{
		api:          api,
		attempts:     attempts,
		doc:          doc,
		session:      qz.NewSession(),
		numQuestions: 10,
		mode:         qz.ModeMixed,
	}
	s.session.Minutes = qz.RecommendedMinutes(s.numQuestions, s.mode)
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) ContextLabel() string {
	return s.doc.DisplayName()
}

// HandlesEscape keeps escape inside the screen while leaving would lose
// an in-flight quiz, and while overlays need it to close.
func (s *QuizScreen) HandlesEscape() bool {
	if s.confirmQuit {
		return true
	}
	switch s.session.Phase {
	case qz.PhaseInProgress, qz.PhaseGrading:
		return true
	case qz.PhaseSubmitted:
		return s.session.ReviewVisible
	}
	return false
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.session.Phase {
	case qz.PhaseIdle:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Field"},
			{Key: "←→", Description: "Adjust"},
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	case qz.PhaseGenerating:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
		}
	case qz.PhaseInProgress:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next question"},
			{Key: "Enter", Description: "Record"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	case qz.PhaseGrading:
		return []layout.KeyHint{}
	case qz.PhaseSubmitted:
		if s.session.ReviewVisible {
			return []layout.KeyHint{
				{Key: "↑↓", Description: "Scroll"},
				{Key: "R/Esc", Description: "Close review"},
			}
		}
		return []layout.KeyHint{
			{Key: "R", Description: "Review"},
			{Key: "Enter", Description: "New quiz"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return nil
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizReadyMsg:
		return s.handleQuizReady(msg)

	case gradeDoneMsg:
		return s.handleGradeDone(msg)

	case timerTickMsg:
		return s.handleTimerTick()

	case attemptSavedMsg:
		// History writes are best effort; a failure never blocks the score.
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Everything else feeds the focused text input while a written
	// question is on screen.
	if s.editingText() {
		return s.updateInput(msg)
	}
	return s, nil
}

// editingText reports whether the focused question takes typed input.
func (s *QuizScreen) editingText() bool {
	if s.session.Phase != qz.PhaseInProgress || s.confirmQuit {
		return false
	}
	q := s.currentQuestion()
	return q != nil && q.Kind() == qz.KindTheory
}

func (s *QuizScreen) currentQuestion() *qz.Question {
	if s.session.Quiz == nil {
		return nil
	}
	if s.current < 0 || s.current >= len(s.session.Quiz.Questions) {
		return nil
	}
	return &s.session.Quiz.Questions[s.current]
}

func (s *QuizScreen) currentKey() string {
	q := s.currentQuestion()
	if q == nil {
		return ""
	}
	return qz.KeyFor(*q, s.current)
}

// updateInput forwards a message to the text input and records the
// buffer as the running answer, so navigating away never loses text.
func (s *QuizScreen) updateInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.session.SetAnswer(s.currentKey(), s.input.Value())
	return s, cmd
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.session.Phase {
	case qz.PhaseIdle:
		return s.handleSetupKey(key)
	case qz.PhaseInProgress:
		return s.handlePlayKey(msg, key)
	case qz.PhaseGrading:
		if key == "esc" {
			s.confirmQuit = true
		}
		return s, nil
	case qz.PhaseSubmitted:
		return s.handleScoreKey(key)
	}
	return s, nil
}

func (s *QuizScreen) handleSetupKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k":
		s.field = s.prevField(s.field)
	case "down", "j":
		s.field = s.nextField(s.field)
	case "left", "h":
		s.adjustField(-1)
	case "right", "l":
		s.adjustField(+1)
	case "space", " ":
		if s.field == fieldTimer {
			s.toggleTimer()
		}
	case "enter":
		if s.field == fieldStart {
			return s, s.startGeneration()
		}
		s.field = s.nextField(s.field)
	}
	return s, nil
}

// nextField moves down the form, skipping minutes while no countdown is
// configured.
func (s *QuizScreen) nextField(f setupField) setupField {
	for f < fieldStart {
		f++
		if f == fieldMinutes && !s.session.TimerEnabled {
			continue
		}
		return f
	}
	return fieldStart
}

func (s *QuizScreen) prevField(f setupField) setupField {
	for f > fieldQuestions {
		f--
		if f == fieldMinutes && !s.session.TimerEnabled {
			continue
		}
		return f
	}
	return fieldQuestions
}

func (s *QuizScreen) adjustField(delta int) {
	switch s.field {
	case fieldQuestions:
		s.numQuestions = clamp(s.numQuestions+delta, minQuestions, maxQuestions)
		s.refreshRecommendation()
	case fieldMode:
		s.cycleMode(delta)
		s.refreshRecommendation()
	case fieldTimer:
		s.toggleTimer()
	case fieldMinutes:
		s.session.Minutes = clamp(s.session.Minutes+delta, minMinutes, maxMinutes)
		s.manualMinutes = true
	}
}

func (s *QuizScreen) toggleTimer() {
	s.session.TimerEnabled = !s.session.TimerEnabled
}

var modeOrder = []qz.Mode{qz.ModeChoice, qz.ModeTheory, qz.ModeMixed}

func (s *QuizScreen) cycleMode(delta int) {
	idx := 0
	for i, m := range modeOrder {
		if m == s.mode {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(modeOrder)) % len(modeOrder)
	s.mode = modeOrder[idx]
}

// refreshRecommendation recomputes the suggested session length until
// the learner has set minutes by hand.
func (s *QuizScreen) refreshRecommendation() {
	if s.manualMinutes {
		return
	}
	s.session.Minutes = qz.RecommendedMinutes(s.numQuestions, s.mode)
}

// startGeneration enters the generating phase and issues the request.
func (s *QuizScreen) startGeneration() tea.Cmd {
	s.errMsg = ""
	s.session.BeginGeneration()
	s.genSeq++

	seq := s.genSeq
	in := studyapi.GenerateQuizInput{
		DocumentID:   s.doc.ID,
		NumQuestions: s.numQuestions,
		Mode:         s.mode,
	}
	return func() tea.Msg {
		q, err := s.api.GenerateQuiz(context.Background(), in)
		return quizReadyMsg{Seq: seq, Quiz: q, Err: err}
	}
}

func (s *QuizScreen) handleQuizReady(msg quizReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.genSeq {
		return s, nil
	}
	if msg.Err != nil {
		s.session.FailGeneration()
		s.errMsg = requestError("Could not generate a quiz", msg.Err)
		return s, nil
	}

	s.session.InstallQuiz(msg.Quiz)
	s.current = 0
	s.startedAt = time.Now()
	s.syncQuestion()

	// The text input exists only while a written question is on screen;
	// focusing the zero-value wrapper would touch an unbuilt cursor.
	var cmds []tea.Cmd
	if s.editingText() {
		cmds = append(cmds, s.input.Init())
	}
	if s.session.Timer.Running() {
		cmds = append(cmds, tickCmd())
	}
	return s, tea.Batch(cmds...)
}

// syncQuestion rebuilds the answer widget for the question under the
// cursor, restoring any previously recorded response.
func (s *QuizScreen) syncQuestion() {
	q := s.currentQuestion()
	if q == nil {
		return
	}
	saved := s.session.Responses.Answer(s.currentKey())

	if q.Kind() == qz.KindChoice {
		choices := make([]components.Choice, len(q.Options))
		for i, opt := range q.Options {
			choices[i] = components.Choice{Label: opt.Label, Text: opt.Text}
		}
		s.choice = components.NewChoiceList(choices, saved)
		return
	}

	s.input = components.NewTextInput("Type your answer...", false, 0)
	s.input.SetValue(saved)
}

func (s *QuizScreen) handlePlayKey(msg tea.KeyMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "ctrl+s":
		return s, s.submit(false)
	case "tab":
		s.gotoQuestion(s.current + 1)
		return s, nil
	case "shift+tab":
		s.gotoQuestion(s.current - 1)
		return s, nil
	}

	q := s.currentQuestion()
	if q == nil {
		return s, nil
	}

	if q.Kind() == qz.KindChoice {
		switch key {
		case "left":
			s.gotoQuestion(s.current - 1)
			return s, nil
		case "right":
			s.gotoQuestion(s.current + 1)
			return s, nil
		case "enter":
			s.recordChoice(s.choice.Pick())
			return s, nil
		}
		if label := letterLabel(key); label != "" && s.choice.PickLabel(label) {
			s.recordChoice(label)
			return s, nil
		}
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		return s, cmd
	}

	// Written question: enter records and moves on, everything else is
	// typed into the answer.
	if key == "enter" {
		s.session.SetAnswer(s.currentKey(), s.input.Value())
		s.gotoQuestion(s.current + 1)
		return s, nil
	}
	return s.updateInput(msg)
}

// letterLabel maps a pressed key to an option label, "a" and "A" both
// picking option A.
func letterLabel(key string) string {
	if len(key) != 1 {
		return ""
	}
	c := key[0]
	switch {
	case c >= 'a' && c <= 'z':
		return string(c - 'a' + 'A')
	case c >= 'A' && c <= 'Z':
		return string(c)
	}
	return ""
}

// recordChoice stores the picked label and advances to the next
// question, matching the flow of answering on paper.
func (s *QuizScreen) recordChoice(label string) {
	if label == "" {
		return
	}
	s.session.SetAnswer(s.currentKey(), label)
	s.gotoQuestion(s.current + 1)
}

func (s *QuizScreen) gotoQuestion(idx int) {
	if s.session.Quiz == nil {
		return
	}
	last := len(s.session.Quiz.Questions) - 1
	idx = clamp(idx, 0, last)
	if idx == s.current {
		return
	}
	s.current = idx
	s.syncQuestion()
}

// submit starts grading. An unforced submit is refused while questions
// are blank; the countdown's forced submit goes through regardless.
func (s *QuizScreen) submit(forced bool) tea.Cmd {
	if !forced && !s.session.CanSubmit() {
		left := s.unansweredCount()
		s.errMsg = fmt.Sprintf("%d of %d questions still need an answer",
			left, len(s.session.Quiz.Questions))
		return nil
	}
	if !s.session.BeginSubmit(forced) {
		return nil
	}
	s.errMsg = ""

	seq := s.genSeq
	quiz := s.session.Quiz
	responses := s.session.Responses
	grader := &qz.Grader{FreeText: s.api}
	return func() tea.Msg {
		score, err := grader.Grade(context.Background(), quiz, responses)
		return gradeDoneMsg{Seq: seq, Score: score, Err: err}
	}
}

func (s *QuizScreen) unansweredCount() int {
	if s.session.Quiz == nil {
		return 0
	}
	n := 0
	for i, q := range s.session.Quiz.Questions {
		if strings.TrimSpace(s.session.Responses.Answer(qz.KeyFor(q, i))) == "" {
			n++
		}
	}
	return n
}

func (s *QuizScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if s.session.Tick() {
		return s, s.submit(true)
	}
	if s.session.Timer.Running() {
		return s, tickCmd()
	}
	return s, nil
}

func (s *QuizScreen) handleGradeDone(msg gradeDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.genSeq {
		return s, nil
	}
	if msg.Err != nil {
		s.session.FailGrading()
		s.errMsg = requestError("Grading failed", msg.Err)
		return s, nil
	}

	s.session.CompleteGrading(msg.Score)
	s.errMsg = ""
	s.reviewScroll = 0
	return s, s.recordAttempt(msg.Score)
}

// recordAttempt writes the finished attempt to local history.
func (s *QuizScreen) recordAttempt(score qz.Score) tea.Cmd {
	if s.attempts == nil {
		return nil
	}
	attempt := &store.Attempt{
		DocumentID:      s.doc.ID,
		DocumentName:    s.doc.DisplayName(),
		QuizTitle:       s.session.Quiz.Title,
		Mode:            string(s.mode),
		Questions:       score.Total,
		Correct:         score.Correct,
		Percent:         score.Percent,
		AutoSubmitted:   s.session.AutoSubmitted,
		DurationSeconds: int(time.Since(s.startedAt).Seconds()),
		StartedAt:       s.startedAt,
		FinishedAt:      time.Now(),
	}
	return func() tea.Msg {
		ctx := context.Background()
		err := s.attempts.Record(ctx, attempt)
		if err == nil {
			_ = s.attempts.Prune(ctx, historyKeep)
		}
		return attemptSavedMsg{Err: err}
	}
}

func (s *QuizScreen) handleScoreKey(key string) (screen.Screen, tea.Cmd) {
	if s.session.ReviewVisible {
		switch key {
		case "up", "k":
			if s.reviewScroll > 0 {
				s.reviewScroll--
			}
		case "down", "j":
			s.reviewScroll++
		case "r", "R", "esc":
			s.session.ToggleReview()
			s.reviewScroll = 0
		}
		return s, nil
	}

	switch key {
	case "r", "R":
		s.session.ToggleReview()
	case "enter":
		s.resetForNewQuiz()
	}
	return s, nil
}

// resetForNewQuiz returns to the setup form with the same settings.
func (s *QuizScreen) resetForNewQuiz() {
	timerEnabled := s.session.TimerEnabled
	minutes := s.session.Minutes
	s.session = qz.NewSession()
	s.session.TimerEnabled = timerEnabled
	s.session.Minutes = minutes
	s.field = fieldStart
	s.errMsg = ""
}

// requestError renders a backend failure as one actionable line.
func requestError(prefix string, err error) string {
	return fmt.Sprintf("%s: %s", prefix, studyapi.UserMessage(err))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
