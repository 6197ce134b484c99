package controller

import (
	"skillbridge_backend/internal/service"
	"skillbridge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	Service *service.EnrollmentService
	Content *service.ContentService
}

func NewEnrollmentController(svc *service.EnrollmentService, content *service.ContentService) *EnrollmentController {
	return &EnrollmentController{Service: svc, Content: content}
}

// @Summary Enroll in a program
// @Description Idempotent: enrolling twice returns the existing record. When
// @Description the primary store is down the record comes from the fallback
// @Description store and is flagged degraded.
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Success 201 {object} util.Response
// @Router /programs/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	// Title travels with the enrollment so the record stays renderable even
	// when it was written to the fallback store during an outage.
	title := ""
	if program, err := c.Content.GetProgram(programID); err == nil {
		title = program.Title
	}

	enrollment, err := c.Service.Enroll(user.Email, programID, title)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, enrollment)
}

// @Summary List my enrollments with progress
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /enrollments [get]
func (c *EnrollmentController) MyEnrollments(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.Service.ListByUser(user.Email)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": enrollments})
}

// @Summary Mark a video as watched
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param moduleId path int true "Module ID"
// @Param videoId path int true "Video ID"
// @Success 200 {object} util.Response
// @Router /programs/{id}/modules/{moduleId}/videos/{videoId}/watched [post]
func (c *EnrollmentController) RecordVideoWatched(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}
	moduleID, ok := paramUint(ctx, "moduleId")
	if !ok {
		return
	}
	videoID, ok := paramUint(ctx, "videoId")
	if !ok {
		return
	}

	enrollment, err := c.Service.RecordVideoWatched(user.Email, programID, moduleID, videoID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

// @Summary Mark a module as completed
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param moduleId path int true "Module ID"
// @Success 200 {object} util.Response
// @Router /programs/{id}/modules/{moduleId}/completed [post]
func (c *EnrollmentController) RecordModuleCompleted(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}
	moduleID, ok := paramUint(ctx, "moduleId")
	if !ok {
		return
	}

	enrollment, err := c.Service.RecordModuleCompleted(user.Email, programID, moduleID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

// @Summary List my quiz attempts for a program
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Success 200 {object} util.Response
// @Router /programs/{id}/quiz-scores [get]
func (c *EnrollmentController) QuizScores(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	scores, err := c.Service.QuizScores(user.Email, programID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": scores})
}

// @Summary Drop my enrollment
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Success 200 {object} util.Response
// @Router /programs/{id}/enroll [delete]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.Service.Drop(user.Email, programID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

// @Summary List candidates who completed a program
// @Tags recruiter
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Success 200 {object} util.Response
// @Router /recruiter/programs/{id}/candidates [get]
func (c *EnrollmentController) CompletedCandidates(ctx *gin.Context) {
	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	candidates, err := c.Service.CompletedCandidates(programID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": candidates})
}
