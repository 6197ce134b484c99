package controller

import (
	"skillbridge_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondDomainError maps the core error taxonomy onto HTTP responses. All of
// these indicate a caller problem and are never retried server-side; anything
// unrecognized is a real internal failure.
func respondDomainError(ctx *gin.Context, err error) {
	var validation *util.QuestionValidationError
	var incomplete *util.IncompleteSubmissionError
	var transition *util.InvalidTransitionError

	switch {
	case errors.As(err, &validation):
		util.BadRequest(ctx, validation.Error())
	case errors.As(err, &incomplete):
		util.Error(ctx, http.StatusUnprocessableEntity, incomplete.Error())
	case errors.As(err, &transition):
		util.Conflict(ctx, transition.Error())
	case errors.Is(err, util.ErrNoQuestions),
		errors.Is(err, util.ErrEmptyQuiz):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUnknownModule),
		errors.Is(err, util.ErrUnknownVideo),
		errors.Is(err, util.ErrProgramNotFound),
		errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrEnrollmentNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrEnrollmentDropped):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
