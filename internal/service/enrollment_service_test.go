package service

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(t, db)
	program := seedProgram(t, db, 2)

	first, err := svc.Enroll(testUserEmail, program.ID, program.Title)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnrolled, first.Status)
	assert.Zero(t, first.Progress)

	second, err := svc.Enroll(testUserEmail, program.ID, program.Title)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnrollSameProgramDifferentLearners(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(t, db)
	program := seedProgram(t, db, 1)

	a, err := svc.Enroll("a@example.com", program.ID, program.Title)
	require.NoError(t, err)
	b, err := svc.Enroll("b@example.com", program.ID, program.Title)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestProgressTracksModuleCompletions(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(t, db)
	program := seedProgram(t, db, 2)

	_, err := svc.Enroll(testUserEmail, program.ID, program.Title)
	require.NoError(t, err)

	e, err := svc.RecordModuleCompleted(testUserEmail, program.ID, program.Modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, e.Progress)
	assert.Equal(t, model.StatusInProgress, e.Status)

	// Completing the same module again changes nothing.
	e, err = svc.RecordModuleCompleted(testUserEmail, program.ID, program.Modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, e.Progress)

	e, err = svc.RecordModuleCompleted(testUserEmail, program.ID, program.Modules[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, e.Progress)
	assert.Equal(t, model.StatusCompleted, e.Status)
}

func TestRecordModuleCompletedValidatesModule(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(t, db)
	program := seedProgram(t, db, 1)

	_, err := svc.Enroll(testUserEmail, program.ID, program.Title)
	require.NoError(t, err)

	_, err = svc.RecordModuleCompleted(testUserEmail, program.ID, 9999)
	assert.ErrorIs(t, err, util.ErrUnknownModule)

	_, err = svc.RecordModuleCompleted("nobody@example.com", program.ID, program.Modules[0].ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestRecordVideoWatched(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(t, db)
	program := seedProgram(t, db, 1)
	module := program.Modules[0]

	_, err := svc.Enroll(testUserEmail, program.ID, program.Title)
	require.NoError(t, err)

	e, err := svc.RecordVideoWatched(testUserEmail, program.ID, module.ID, module.Videos[0].ID)
	require.NoError(t, err)
	// Watching moves the enrollment into in-progress but completions alone
	// drive the percentage.
	assert.Equal(t, model.StatusInProgress, e.Status)
	assert.Zero(t, e.Progress)

	// Re-watching is a no-op.
	_, err = svc.RecordVideoWatched(testUserEmail, program.ID, module.ID, module.Videos[0].ID)
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&model.VideoWatch{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = svc.RecordVideoWatched(testUserEmail, program.ID, module.ID, 9999)
	assert.ErrorIs(t, err, util.ErrUnknownVideo)
	_, err = svc.RecordVideoWatched(testUserEmail, program.ID, 9999, module.Videos[0].ID)
	assert.ErrorIs(t, err, util.ErrUnknownModule)
}

func TestQuizScoreLogIsAppendOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(t, db)
	program := seedProgram(t, db, 1)
	moduleID := program.Modules[0].ID

	_, err := svc.Enroll(testUserEmail, program.ID, program.Title)
	require.NoError(t, err)

	_, err = svc.RecordQuizScore(testUserEmail, program.ID, &moduleID, 60)
	require.NoError(t, err)
	_, err = svc.RecordQuizScore(testUserEmail, program.ID, &moduleID, 90)
	require.NoError(t, err)
	_, err = svc.RecordQuizScore(testUserEmail, program.ID, nil, 80)
	require.NoError(t, err)

	scores, err := svc.QuizScores(testUserEmail, program.ID)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, 60, scores[0].Score)
	assert.Equal(t, 90, scores[1].Score)
	assert.Nil(t, scores[2].ModuleID)

	_, err = svc.RecordQuizScore(testUserEmail, program.ID, nil, 50)
	require.NoError(t, err)
	scores, err = svc.QuizScores(testUserEmail, program.ID)
	require.NoError(t, err)
	assert.Len(t, scores, 4)
}

func TestRecordQuizScoreValidatesModule(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(t, db)
	program := seedProgram(t, db, 1)

	_, err := svc.Enroll(testUserEmail, program.ID, program.Title)
	require.NoError(t, err)

	unknown := uint(9999)
	_, err = svc.RecordQuizScore(testUserEmail, program.ID, &unknown, 75)
	assert.ErrorIs(t, err, util.ErrUnknownModule)
}

func TestDropIsExplicitAndSticky(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(t, db)
	program := seedProgram(t, db, 1)

	_, err := svc.Enroll(testUserEmail, program.ID, program.Title)
	require.NoError(t, err)

	e, err := svc.Drop(testUserEmail, program.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDropped, e.Status)

	// A dropped enrollment refuses further activity.
	_, err = svc.RecordModuleCompleted(testUserEmail, program.ID, program.Modules[0].ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentDropped)
	_, err = svc.RecordQuizScore(testUserEmail, program.ID, nil, 50)
	assert.ErrorIs(t, err, util.ErrEnrollmentDropped)

	_, err = svc.Drop(testUserEmail, 9999)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestListByUser(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(t, db)
	p1 := seedProgram(t, db, 1)
	p2 := seedProgram(t, db, 1)

	_, err := svc.Enroll(testUserEmail, p1.ID, p1.Title)
	require.NoError(t, err)
	_, err = svc.Enroll(testUserEmail, p2.ID, p2.Title)
	require.NoError(t, err)
	_, err = svc.Enroll("other@example.com", p1.ID, p1.Title)
	require.NoError(t, err)

	list, err := svc.ListByUser(testUserEmail)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCompletedCandidates(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(t, db)
	program := seedProgram(t, db, 1)

	_, err := svc.Enroll("done@example.com", program.ID, program.Title)
	require.NoError(t, err)
	_, err = svc.RecordModuleCompleted("done@example.com", program.ID, program.Modules[0].ID)
	require.NoError(t, err)

	_, err = svc.Enroll("partway@example.com", program.ID, program.Title)
	require.NoError(t, err)

	candidates, err := svc.CompletedCandidates(program.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "done@example.com", candidates[0].UserEmail)
	assert.Equal(t, model.StatusCompleted, candidates[0].Status)
}

func TestLifecycleFromEnrollToCompleted(t *testing.T) {
	db := newTestDB(t)
	quizzes := newQuizService(t, db)
	enrollments := newEnrollmentService(t, db)
	program := seedProgram(t, db, 2)
	m1, m2 := program.Modules[0], program.Modules[1]

	scope := moduleScope(program.ID, m1.ID)
	_, err := quizzes.AddQuestions(scope, questionReqs(2), 1)
	require.NoError(t, err)

	manager := NewSessionManager(quizzes, enrollments, 70)
	t.Cleanup(manager.Shutdown)

	e, err := enrollments.Enroll(testUserEmail, program.ID, program.Title)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnrolled, e.Status)

	// Watch the first module's video, pass its quiz, complete it.
	_, err = enrollments.RecordVideoWatched(testUserEmail, program.ID, m1.ID, m1.Videos[0].ID)
	require.NoError(t, err)

	_, err = manager.Open(testUserID, testUserEmail, scope)
	require.NoError(t, err)
	_, err = manager.Start(testUserID, scope)
	require.NoError(t, err)
	answerAll(t, manager, scope, 0)
	view, err := manager.Submit(testUserID, scope)
	require.NoError(t, err)
	assert.True(t, view.Report.Passed)

	e, err = enrollments.RecordModuleCompleted(testUserEmail, program.ID, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, e.Progress)
	assert.Equal(t, model.StatusInProgress, e.Status)

	e, err = enrollments.RecordModuleCompleted(testUserEmail, program.ID, m2.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, e.Progress)
	assert.Equal(t, model.StatusCompleted, e.Status)

	scores, err := enrollments.QuizScores(testUserEmail, program.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 100, scores[0].Score)
}
