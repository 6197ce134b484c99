package service

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID    = uint(7)
	testUserEmail = "learner@example.com"
)

// sessionFixture seeds a one-module program with a 3-question module quiz and
// returns a manager with no enrollment wiring.
func sessionFixture(t *testing.T) (*SessionManager, model.QuizScope) {
	t.Helper()
	db := newTestDB(t)
	quizzes := newQuizService(t, db)
	program := seedProgram(t, db, 1)
	scope := moduleScope(program.ID, program.Modules[0].ID)

	_, err := quizzes.AddQuestions(scope, questionReqs(3), 1)
	require.NoError(t, err)

	manager := NewSessionManager(quizzes, nil, 70)
	t.Cleanup(manager.Shutdown)
	return manager, scope
}

func answerAll(t *testing.T, m *SessionManager, scope model.QuizScope, option int) {
	t.Helper()
	view, err := m.Get(testUserID, scope)
	require.NoError(t, err)
	for i := 0; i < view.QuestionCount; i++ {
		_, err := m.SelectAnswer(testUserID, scope, i, option)
		require.NoError(t, err)
	}
}

func TestOpenLoadsQuestionsIntoReady(t *testing.T) {
	manager, scope := sessionFixture(t)

	view, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	assert.Equal(t, SessionReady, view.State)
	assert.Equal(t, 3, view.QuestionCount)
	assert.NotEmpty(t, view.ID)

	// Correct answers stay hidden until graded.
	for _, q := range view.Questions {
		assert.Nil(t, q.CorrectOption)
		assert.Empty(t, q.Explanation)
	}
}

func TestStartRequiresQuestions(t *testing.T) {
	db := newTestDB(t)
	quizzes := newQuizService(t, db)
	manager := NewSessionManager(quizzes, nil, 70)
	t.Cleanup(manager.Shutdown)

	scope := courseScope(42)
	view, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	assert.Equal(t, 0, view.QuestionCount)

	_, err = manager.Start(testUserID, scope)
	assert.ErrorIs(t, err, util.ErrNoQuestions)

	// The failed start leaves the session where it was.
	view, err = manager.Get(testUserID, scope)
	require.NoError(t, err)
	assert.Equal(t, SessionReady, view.State)
}

func TestStartOnlyFromReady(t *testing.T) {
	manager, scope := sessionFixture(t)

	_, err := manager.Start(testUserID, scope)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	_, err = manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	_, err = manager.Start(testUserID, scope)
	require.NoError(t, err)

	_, err = manager.Start(testUserID, scope)
	var terr *util.InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, string(SessionInProgress), terr.From)
}

func TestSelectAnswerLastWriteWins(t *testing.T) {
	manager, scope := sessionFixture(t)
	_, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	_, err = manager.Start(testUserID, scope)
	require.NoError(t, err)

	_, err = manager.SelectAnswer(testUserID, scope, 0, 1)
	require.NoError(t, err)
	view, err := manager.SelectAnswer(testUserID, scope, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Answers[0])
	assert.Len(t, view.Answers, 1)
}

func TestSelectAnswerBounds(t *testing.T) {
	manager, scope := sessionFixture(t)
	_, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	_, err = manager.Start(testUserID, scope)
	require.NoError(t, err)

	var verr *util.QuestionValidationError
	_, err = manager.SelectAnswer(testUserID, scope, 5, 0)
	assert.ErrorAs(t, err, &verr)
	_, err = manager.SelectAnswer(testUserID, scope, -1, 0)
	assert.ErrorAs(t, err, &verr)
	_, err = manager.SelectAnswer(testUserID, scope, 0, 9)
	assert.ErrorAs(t, err, &verr)
}

func TestSubmitRejectsIncompleteAnswers(t *testing.T) {
	manager, scope := sessionFixture(t)
	_, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	_, err = manager.Start(testUserID, scope)
	require.NoError(t, err)

	_, err = manager.SelectAnswer(testUserID, scope, 0, 0)
	require.NoError(t, err)

	_, err = manager.Submit(testUserID, scope)
	var ierr *util.IncompleteSubmissionError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 2, ierr.Unanswered)

	// The rejected submit leaves the attempt open; answering the rest and
	// resubmitting succeeds.
	view, err := manager.Get(testUserID, scope)
	require.NoError(t, err)
	assert.Equal(t, SessionInProgress, view.State)

	answerAll(t, manager, scope, 0)
	view, err = manager.Submit(testUserID, scope)
	require.NoError(t, err)
	assert.Equal(t, SessionGraded, view.State)
}

func TestSubmitGradesOnce(t *testing.T) {
	manager, scope := sessionFixture(t)
	_, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	_, err = manager.Start(testUserID, scope)
	require.NoError(t, err)
	answerAll(t, manager, scope, 0)

	view, err := manager.Submit(testUserID, scope)
	require.NoError(t, err)
	require.NotNil(t, view.Report)
	assert.Equal(t, 3, view.Report.CorrectCount)
	assert.Equal(t, 100, view.Report.Percentage)
	assert.True(t, view.Report.Passed)

	// Graded views reveal corrections.
	for _, q := range view.Questions {
		require.NotNil(t, q.CorrectOption)
		assert.Equal(t, 0, *q.CorrectOption)
	}

	_, err = manager.Submit(testUserID, scope)
	var terr *util.InvalidTransitionError
	require.ErrorAs(t, err, &terr)

	_, err = manager.SelectAnswer(testUserID, scope, 0, 1)
	assert.ErrorAs(t, err, &terr)
}

func TestRetakeResetsTheAttempt(t *testing.T) {
	manager, scope := sessionFixture(t)
	_, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	_, err = manager.Start(testUserID, scope)
	require.NoError(t, err)
	answerAll(t, manager, scope, 1)

	view, err := manager.Submit(testUserID, scope)
	require.NoError(t, err)
	assert.False(t, view.Report.Passed)

	// Retake goes straight back into the attempt, wiped clean.
	view, err = manager.Retake(testUserID, scope)
	require.NoError(t, err)
	assert.Equal(t, SessionInProgress, view.State)
	assert.Empty(t, view.Answers)
	assert.Zero(t, view.ElapsedSeconds)
	assert.Nil(t, view.Report)

	answerAll(t, manager, scope, 0)
	view, err = manager.Submit(testUserID, scope)
	require.NoError(t, err)
	assert.True(t, view.Report.Passed)
}

func TestRetakeOnlyFromGraded(t *testing.T) {
	manager, scope := sessionFixture(t)
	_, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)

	_, err = manager.Retake(testUserID, scope)
	var terr *util.InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, string(SessionReady), terr.From)
}

func TestOpenReplacesExistingSession(t *testing.T) {
	manager, scope := sessionFixture(t)

	first, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	_, err = manager.Start(testUserID, scope)
	require.NoError(t, err)

	second, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, SessionReady, second.State)

	view, err := manager.Get(testUserID, scope)
	require.NoError(t, err)
	assert.Equal(t, second.ID, view.ID)
}

func TestAbandonDiscardsSession(t *testing.T) {
	manager, scope := sessionFixture(t)
	_, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	_, err = manager.Start(testUserID, scope)
	require.NoError(t, err)

	manager.Abandon(testUserID, scope)
	_, err = manager.Get(testUserID, scope)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	// Abandoning twice is harmless.
	manager.Abandon(testUserID, scope)
}

func TestSessionsAreKeyedPerLearner(t *testing.T) {
	manager, scope := sessionFixture(t)

	_, err := manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	_, err = manager.Open(99, "other@example.com", scope)
	require.NoError(t, err)

	_, err = manager.Start(testUserID, scope)
	require.NoError(t, err)

	// The second learner's session is untouched.
	view, err := manager.Get(99, scope)
	require.NoError(t, err)
	assert.Equal(t, SessionReady, view.State)
}

func TestSubmitFeedsTheScoreLog(t *testing.T) {
	db := newTestDB(t)
	quizzes := newQuizService(t, db)
	enrollments := newEnrollmentService(t, db)
	program := seedProgram(t, db, 1)
	scope := moduleScope(program.ID, program.Modules[0].ID)

	_, err := quizzes.AddQuestions(scope, questionReqs(2), 1)
	require.NoError(t, err)
	_, err = enrollments.Enroll(testUserEmail, program.ID, program.Title)
	require.NoError(t, err)

	manager := NewSessionManager(quizzes, enrollments, 70)
	t.Cleanup(manager.Shutdown)

	run := func(option int) {
		_, err := manager.Open(testUserID, testUserEmail, scope)
		require.NoError(t, err)
		_, err = manager.Start(testUserID, scope)
		require.NoError(t, err)
		answerAll(t, manager, scope, option)
		_, err = manager.Submit(testUserID, scope)
		require.NoError(t, err)
	}

	run(0)
	run(1)

	// Every graded attempt appends; nothing is overwritten.
	scores, err := enrollments.QuizScores(testUserEmail, program.ID)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 100, scores[0].Score)
	assert.Equal(t, 0, scores[1].Score)
	require.NotNil(t, scores[0].ModuleID)
	assert.Equal(t, program.Modules[0].ID, *scores[0].ModuleID)
}
