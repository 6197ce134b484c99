package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrProgramNotFound    = errors.New("program not found")
	ErrUnknownModule      = errors.New("module does not exist in this program")
	ErrUnknownVideo       = errors.New("video does not exist in this module")
	ErrNoQuestions        = errors.New("quiz has no questions")
	ErrEmptyQuiz          = errors.New("cannot grade a quiz with no questions")
	ErrSessionNotFound    = errors.New("quiz session not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrEnrollmentDropped  = errors.New("enrollment has been dropped")
)

// QuestionValidationError reports a malformed question by its 1-based
// position, matching how an author counts them.
type QuestionValidationError struct {
	Index  int
	Reason string
}

func (e *QuestionValidationError) Error() string {
	return fmt.Sprintf("question %d: %s", e.Index, e.Reason)
}

// IncompleteSubmissionError rejects a submit while questions remain
// unanswered.
type IncompleteSubmissionError struct {
	Unanswered int
}

func (e *IncompleteSubmissionError) Error() string {
	return fmt.Sprintf("%d question(s) unanswered", e.Unanswered)
}

// InvalidTransitionError reports a session operation attempted outside the
// state that allows it.
type InvalidTransitionError struct {
	From string
	Op   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from state %s", e.Op, e.From)
}
