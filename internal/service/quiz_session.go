package service

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/util"
	"skillbridge_backend/pkg/logger"
	"skillbridge_backend/pkg/monitoring"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type SessionState string

const (
	SessionIdle       SessionState = "idle"
	SessionLoading    SessionState = "loading"
	SessionReady      SessionState = "ready"
	SessionInProgress SessionState = "in_progress"
	SessionSubmitted  SessionState = "submitted"
	SessionGraded     SessionState = "graded"
)

// QuizSession is one learner's attempt at a quiz definition. All access goes
// through the SessionManager, which holds the session lock.
type QuizSession struct {
	mu sync.Mutex

	ID             string
	UserID         uint
	UserEmail      string
	Scope          model.QuizScope
	Questions      []model.QuizQuestion
	Answers        map[int]int
	ElapsedSeconds int
	State          SessionState
	Report         *ScoreReport

	stopTick chan struct{}
}

// SessionView is the lock-free snapshot handed to the presentation layer.
// Correct answers and explanations are withheld until the session is graded.
type SessionView struct {
	ID             string          `json:"id"`
	Scope          model.QuizScope `json:"scope"`
	State          SessionState    `json:"state"`
	QuestionCount  int             `json:"questionCount"`
	Questions      []QuestionView  `json:"questions"`
	Answers        map[int]int     `json:"answers"`
	ElapsedSeconds int             `json:"elapsedSeconds"`
	Report         *ScoreReport    `json:"report,omitempty"`
}

type QuestionView struct {
	Index         int      `json:"index"`
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	Points        int      `json:"points"`
	CorrectOption *int     `json:"correctOption,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// SessionManager owns every live quiz session, one per (learner, scope).
// Sessions are in-memory only; a learner navigating away abandons the
// attempt, matching how the platform treats unsubmitted quizzes.
type SessionManager struct {
	quizzes     *QuizService
	enrollments *EnrollmentService

	mu          sync.Mutex
	sessions    map[string]*QuizSession
	passPercent int
}

func NewSessionManager(quizzes *QuizService, enrollments *EnrollmentService, passPercent int) *SessionManager {
	if passPercent <= 0 {
		passPercent = DefaultPassPercent
	}
	return &SessionManager{
		quizzes:     quizzes,
		enrollments: enrollments,
		sessions:    make(map[string]*QuizSession),
		passPercent: passPercent,
	}
}

// SetPassPercent applies a hot-reloaded threshold to future gradings.
func (m *SessionManager) SetPassPercent(p int) {
	if p <= 0 {
		return
	}
	m.mu.Lock()
	m.passPercent = p
	m.mu.Unlock()
}

func sessionKey(userID uint, scope model.QuizScope) string {
	moduleID := uint(0)
	if scope.ModuleID != nil {
		moduleID = *scope.ModuleID
	}
	return fmt.Sprintf("%d:%d:%d:%s", userID, scope.ProgramID, moduleID, scope.QuizType)
}

// Open creates a session and loads its questions. An existing session for
// the same learner and scope is abandoned first: there is at most one live
// attempt per key.
func (m *SessionManager) Open(userID uint, userEmail string, scope model.QuizScope) (*SessionView, error) {
	session := &QuizSession{
		ID:        model.GenerateUUID(),
		UserID:    userID,
		UserEmail: userEmail,
		Scope:     scope,
		Answers:   make(map[int]int),
		State:     SessionIdle,
	}

	session.State = SessionLoading
	questions, err := m.quizzes.GetQuestions(scope)
	if err != nil {
		return nil, err
	}
	session.Questions = questions
	session.State = SessionReady

	key := sessionKey(userID, scope)
	m.mu.Lock()
	if old, ok := m.sessions[key]; ok {
		old.mu.Lock()
		old.stopTicker()
		old.mu.Unlock()
	}
	m.sessions[key] = session
	m.mu.Unlock()

	return session.view(), nil
}

func (m *SessionManager) get(userID uint, scope model.QuizScope) (*QuizSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionKey(userID, scope)]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

// Start moves Ready into InProgress and begins the elapsed-time ticker. A
// definition with no questions cannot be started.
func (m *SessionManager) Start(userID uint, scope model.QuizScope) (*SessionView, error) {
	session, err := m.get(userID, scope)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State != SessionReady {
		return nil, &util.InvalidTransitionError{From: string(session.State), Op: "start"}
	}
	if len(session.Questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	session.State = SessionInProgress
	session.startTicker()
	return session.view(), nil
}

// SelectAnswer records the selected option for a question; re-answering the
// same question overwrites, last write wins.
func (m *SessionManager) SelectAnswer(userID uint, scope model.QuizScope, questionIndex, optionIndex int) (*SessionView, error) {
	session, err := m.get(userID, scope)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State != SessionInProgress {
		return nil, &util.InvalidTransitionError{From: string(session.State), Op: "answer"}
	}
	if questionIndex < 0 || questionIndex >= len(session.Questions) {
		return nil, &util.QuestionValidationError{Index: questionIndex + 1, Reason: "no such question"}
	}
	options, err := DecodeOptions(&session.Questions[questionIndex])
	if err != nil {
		return nil, err
	}
	if optionIndex < 0 || optionIndex >= len(options) {
		return nil, &util.QuestionValidationError{Index: questionIndex + 1, Reason: "no such option"}
	}

	session.Answers[questionIndex] = optionIndex
	return session.view(), nil
}

// Submit grades the session. Every question must be answered; otherwise the
// submission is rejected and the session stays InProgress. Grading runs
// exactly once and the attached report never changes. The score then feeds
// the enrollment's attempt log.
func (m *SessionManager) Submit(userID uint, scope model.QuizScope) (*SessionView, error) {
	session, err := m.get(userID, scope)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	passPercent := m.passPercent
	m.mu.Unlock()

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State != SessionInProgress {
		return nil, &util.InvalidTransitionError{From: string(session.State), Op: "submit"}
	}

	unanswered := 0
	for i := range session.Questions {
		if _, ok := session.Answers[i]; !ok {
			unanswered++
		}
	}
	if unanswered > 0 {
		return nil, &util.IncompleteSubmissionError{Unanswered: unanswered}
	}

	session.State = SessionSubmitted
	session.stopTicker()

	report, err := Grade(session.Questions, session.Answers, passPercent)
	if err != nil {
		// Unreachable after the Start guard, but grading stays total.
		session.State = SessionInProgress
		return nil, err
	}

	session.Report = report
	session.State = SessionGraded

	outcome := "failed"
	if report.Passed {
		outcome = "passed"
	}
	monitoring.QuizSubmissions.WithLabelValues(outcome).Inc()

	// Feed the aggregator. The attempt is graded either way; a learner who
	// never enrolled just has no log to append to.
	if m.enrollments != nil {
		if _, err := m.enrollments.RecordQuizScore(session.UserEmail, scope.ProgramID, scope.ModuleID, report.Percentage); err != nil {
			logger.Log.Warn("quiz score not recorded",
				zap.String("userEmail", session.UserEmail),
				zap.Uint("programId", scope.ProgramID),
				zap.Error(err))
		}
	}

	return session.view(), nil
}

// Retake resets a graded session and re-enters InProgress directly; it is a
// single action with no intermediate start screen.
func (m *SessionManager) Retake(userID uint, scope model.QuizScope) (*SessionView, error) {
	session, err := m.get(userID, scope)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State != SessionGraded {
		return nil, &util.InvalidTransitionError{From: string(session.State), Op: "retake"}
	}

	session.Answers = make(map[int]int)
	session.ElapsedSeconds = 0
	session.Report = nil
	session.State = SessionInProgress
	session.startTicker()
	return session.view(), nil
}

// Abandon discards the session and stops its ticker.
func (m *SessionManager) Abandon(userID uint, scope model.QuizScope) {
	key := sessionKey(userID, scope)
	m.mu.Lock()
	session, ok := m.sessions[key]
	if ok {
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	if ok {
		session.mu.Lock()
		session.stopTicker()
		session.mu.Unlock()
	}
}

func (m *SessionManager) Get(userID uint, scope model.QuizScope) (*SessionView, error) {
	session, err := m.get(userID, scope)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

// Shutdown stops every live ticker. Called on server shutdown.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, session := range m.sessions {
		session.mu.Lock()
		session.stopTicker()
		session.mu.Unlock()
		delete(m.sessions, key)
	}
}

// startTicker runs the one-second elapsed counter. Caller holds session.mu.
func (s *QuizSession) startTicker() {
	s.stopTicker()
	stop := make(chan struct{})
	s.stopTick = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				if s.State == SessionInProgress {
					s.ElapsedSeconds++
				}
				s.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

// stopTicker is idempotent. Caller holds session.mu.
func (s *QuizSession) stopTicker() {
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
}

// view builds a snapshot. Caller holds session.mu.
func (s *QuizSession) view() *SessionView {
	graded := s.State == SessionGraded

	questions := make([]QuestionView, len(s.Questions))
	for i := range s.Questions {
		q := &s.Questions[i]
		options, err := DecodeOptions(q)
		if err != nil {
			options = nil
		}
		qv := QuestionView{
			Index:        i,
			QuestionText: q.QuestionText,
			Options:      options,
			Points:       q.Points,
		}
		if graded {
			correct := q.CorrectOption
			qv.CorrectOption = &correct
			qv.Explanation = q.Explanation
		}
		questions[i] = qv
	}

	answers := make(map[int]int, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}

	return &SessionView{
		ID:             s.ID,
		Scope:          s.Scope,
		State:          s.State,
		QuestionCount:  len(s.Questions),
		Questions:      questions,
		Answers:        answers,
		ElapsedSeconds: s.ElapsedSeconds,
		Report:         s.Report,
	}
}
