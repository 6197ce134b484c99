package service

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moduleScope(programID, moduleID uint) model.QuizScope {
	return model.QuizScope{ProgramID: programID, ModuleID: &moduleID, QuizType: model.ModuleQuiz}
}

func courseScope(programID uint) model.QuizScope {
	return model.QuizScope{ProgramID: programID, QuizType: model.CourseQuiz}
}

func TestAddQuestionsAppendsInOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(t, db)
	program := seedProgram(t, db, 1)
	scope := moduleScope(program.ID, program.Modules[0].ID)

	ids, err := svc.AddQuestions(scope, questionReqs(2), 1)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	// A second batch continues the ordering instead of replacing anything.
	more := []QuestionReq{{
		QuestionText:  "Question 3",
		Options:       []string{"yes", "no"},
		CorrectOption: 1,
	}}
	_, err = svc.AddQuestions(scope, more, 1)
	require.NoError(t, err)

	questions, err := svc.GetQuestions(scope)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	for i, q := range questions {
		assert.Equal(t, i+1, q.Order)
	}
	assert.Equal(t, "Question 3", questions[2].QuestionText)
}

func TestAddQuestionsValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(t, db)
	program := seedProgram(t, db, 1)
	scope := moduleScope(program.ID, program.Modules[0].ID)

	valid := QuestionReq{QuestionText: "ok", Options: []string{"a", "b"}, CorrectOption: 0}

	tests := []struct {
		name      string
		reqs      []QuestionReq
		wantIndex int
	}{
		{"empty batch", nil, 1},
		{"blank text", []QuestionReq{valid, {QuestionText: "  ", Options: []string{"a", "b"}}}, 2},
		{"too few options", []QuestionReq{{QuestionText: "q", Options: []string{"only"}}}, 1},
		{"too many options", []QuestionReq{{QuestionText: "q", Options: []string{"1", "2", "3", "4", "5", "6", "7"}}}, 1},
		{"blank option", []QuestionReq{{QuestionText: "q", Options: []string{"a", " "}}}, 1},
		{"correct out of range", []QuestionReq{{QuestionText: "q", Options: []string{"a", "b"}, CorrectOption: 2}}, 1},
		{"negative points", []QuestionReq{{QuestionText: "q", Options: []string{"a", "b"}, Points: -1}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddQuestions(scope, tt.reqs, 1)
			var verr *util.QuestionValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantIndex, verr.Index)
		})
	}

	// A failed batch stores nothing.
	questions, err := svc.GetQuestions(scope)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestAddQuestionsDefaultsPointsToOne(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(t, db)
	program := seedProgram(t, db, 1)
	scope := courseScope(program.ID)

	_, err := svc.AddQuestions(scope, []QuestionReq{{
		QuestionText:  "q",
		Options:       []string{"a", "b"},
		CorrectOption: 1,
	}}, 1)
	require.NoError(t, err)

	questions, err := svc.GetQuestions(scope)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 1, questions[0].Points)
}

func TestGetQuestionsUnknownScopeIsEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(t, db)

	questions, err := svc.GetQuestions(courseScope(999))
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestScopesAreIsolated(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(t, db)
	program := seedProgram(t, db, 2)

	m1 := moduleScope(program.ID, program.Modules[0].ID)
	m2 := moduleScope(program.ID, program.Modules[1].ID)
	course := courseScope(program.ID)

	_, err := svc.AddQuestions(m1, questionReqs(2), 1)
	require.NoError(t, err)
	_, err = svc.AddQuestions(m2, questionReqs(3), 1)
	require.NoError(t, err)
	_, err = svc.AddQuestions(course, questionReqs(1), 1)
	require.NoError(t, err)

	for _, tc := range []struct {
		scope model.QuizScope
		want  int
	}{{m1, 2}, {m2, 3}, {course, 1}} {
		questions, err := svc.GetQuestions(tc.scope)
		require.NoError(t, err)
		assert.Len(t, questions, tc.want)
	}
}

func TestDeleteAllRemovesOnlyTheScope(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(t, db)
	program := seedProgram(t, db, 1)

	module := moduleScope(program.ID, program.Modules[0].ID)
	course := courseScope(program.ID)

	_, err := svc.AddQuestions(module, questionReqs(2), 1)
	require.NoError(t, err)
	_, err = svc.AddQuestions(course, questionReqs(2), 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAll(module))

	questions, err := svc.GetQuestions(module)
	require.NoError(t, err)
	assert.Empty(t, questions)

	questions, err = svc.GetQuestions(course)
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	// Deleting an already empty scope succeeds.
	require.NoError(t, svc.DeleteAll(module))
}
