package controller

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/service"
	"skillbridge_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service  *service.QuizService
	Sessions *service.SessionManager
}

func NewQuizController(svc *service.QuizService, sessions *service.SessionManager) *QuizController {
	return &QuizController{Service: svc, Sessions: sessions}
}

// parseScope builds the quiz scope from the program path param plus the
// quizType and moduleId query params. A module quiz requires moduleId; the
// course quiz forbids it.
func parseScope(ctx *gin.Context) (model.QuizScope, bool) {
	var scope model.QuizScope

	programID, ok := paramUint(ctx, "id")
	if !ok {
		return scope, false
	}
	scope.ProgramID = programID

	switch model.QuizType(ctx.DefaultQuery("quizType", string(model.ModuleQuiz))) {
	case model.ModuleQuiz:
		scope.QuizType = model.ModuleQuiz
	case model.CourseQuiz:
		scope.QuizType = model.CourseQuiz
	default:
		util.BadRequest(ctx, "quizType must be module or course")
		return scope, false
	}

	moduleParam := ctx.Query("moduleId")
	if scope.QuizType == model.ModuleQuiz {
		v, err := strconv.ParseUint(moduleParam, 10, 64)
		if err != nil {
			util.BadRequest(ctx, "moduleId is required for module quizzes")
			return scope, false
		}
		moduleID := uint(v)
		scope.ModuleID = &moduleID
	} else if moduleParam != "" {
		util.BadRequest(ctx, "course quizzes take no moduleId")
		return scope, false
	}

	return scope, true
}

type AddQuestionsReq struct {
	QuizType  model.QuizType        `json:"quizType" binding:"required"`
	ModuleID  *uint                 `json:"moduleId"`
	Questions []service.QuestionReq `json:"questions" binding:"required"`
}

// @Summary Add questions to a program or module quiz
// @Description Appends to the existing definition for the scope. Module and
// @Description course quizzes use the same endpoint, selected by quizType.
// @Tags trainer
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param body body AddQuestionsReq true "Questions"
// @Success 201 {object} util.Response
// @Router /trainer/programs/{id}/quizzes [post]
func (c *QuizController) AddQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req AddQuestionsReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.QuizType == model.CourseQuiz && req.ModuleID != nil {
		util.BadRequest(ctx, "course quizzes take no moduleId")
		return
	}
	if req.QuizType == model.ModuleQuiz && req.ModuleID == nil {
		util.BadRequest(ctx, "moduleId is required for module quizzes")
		return
	}

	scope := model.QuizScope{ProgramID: programID, ModuleID: req.ModuleID, QuizType: req.QuizType}
	ids, err := c.Service.AddQuestions(scope, req.Questions, user.UserID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"questionIds": ids})
}

// @Summary List a quiz definition with answers
// @Tags trainer
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param quizType query string false "module or course" default(module)
// @Param moduleId query int false "Module ID (module quizzes)"
// @Success 200 {object} util.Response
// @Router /trainer/programs/{id}/quizzes [get]
func (c *QuizController) GetQuestions(ctx *gin.Context) {
	scope, ok := parseScope(ctx)
	if !ok {
		return
	}

	questions, err := c.Service.GetQuestions(scope)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"scope": scope, "questions": questions})
}

// @Summary Delete every question for a quiz scope
// @Tags trainer
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param quizType query string false "module or course" default(module)
// @Param moduleId query int false "Module ID (module quizzes)"
// @Success 200 {object} util.Response
// @Router /trainer/programs/{id}/quizzes [delete]
func (c *QuizController) DeleteQuestions(ctx *gin.Context) {
	scope, ok := parseScope(ctx)
	if !ok {
		return
	}

	if err := c.Service.DeleteAll(scope); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": scope})
}

// @Summary Open a quiz session
// @Description Loads the questions and shows the start screen. An existing
// @Description session for the same scope is replaced.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param quizType query string false "module or course" default(module)
// @Param moduleId query int false "Module ID (module quizzes)"
// @Success 201 {object} util.Response
// @Router /programs/{id}/quiz/session [post]
func (c *QuizController) OpenSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	scope, ok := parseScope(ctx)
	if !ok {
		return
	}

	view, err := c.Sessions.Open(user.UserID, user.Email, scope)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, view)
}

// @Summary Start the opened session
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param quizType query string false "module or course" default(module)
// @Param moduleId query int false "Module ID (module quizzes)"
// @Success 200 {object} util.Response
// @Router /programs/{id}/quiz/session/start [post]
func (c *QuizController) StartSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	scope, ok := parseScope(ctx)
	if !ok {
		return
	}

	view, err := c.Sessions.Start(user.UserID, scope)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type SelectAnswerReq struct {
	QuestionIndex int `json:"questionIndex"`
	OptionIndex   int `json:"optionIndex"`
}

// @Summary Select an answer
// @Description Last write wins when re-answering the same question.
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param body body SelectAnswerReq true "Answer selection"
// @Success 200 {object} util.Response
// @Router /programs/{id}/quiz/session/answer [post]
func (c *QuizController) SelectAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	scope, ok := parseScope(ctx)
	if !ok {
		return
	}

	var req SelectAnswerReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Sessions.SelectAnswer(user.UserID, scope, req.QuestionIndex, req.OptionIndex)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary Submit the session for grading
// @Description Rejected while any question is unanswered. Grading runs once;
// @Description the score report is immutable and the score is appended to the
// @Description learner's enrollment history.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param quizType query string false "module or course" default(module)
// @Param moduleId query int false "Module ID (module quizzes)"
// @Success 200 {object} util.Response
// @Router /programs/{id}/quiz/session/submit [post]
func (c *QuizController) SubmitSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	scope, ok := parseScope(ctx)
	if !ok {
		return
	}

	view, err := c.Sessions.Submit(user.UserID, scope)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary Retake a graded quiz
// @Description Resets answers and elapsed time and goes straight back into
// @Description answering; no second start screen.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param quizType query string false "module or course" default(module)
// @Param moduleId query int false "Module ID (module quizzes)"
// @Success 200 {object} util.Response
// @Router /programs/{id}/quiz/session/retake [post]
func (c *QuizController) RetakeSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	scope, ok := parseScope(ctx)
	if !ok {
		return
	}

	view, err := c.Sessions.Retake(user.UserID, scope)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary Abandon the session
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param quizType query string false "module or course" default(module)
// @Param moduleId query int false "Module ID (module quizzes)"
// @Success 200 {object} util.Response
// @Router /programs/{id}/quiz/session [delete]
func (c *QuizController) AbandonSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	scope, ok := parseScope(ctx)
	if !ok {
		return
	}

	c.Sessions.Abandon(user.UserID, scope)
	util.Success(ctx, gin.H{"abandoned": true})
}

// @Summary Get the current session state
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param quizType query string false "module or course" default(module)
// @Param moduleId query int false "Module ID (module quizzes)"
// @Success 200 {object} util.Response
// @Router /programs/{id}/quiz/session [get]
func (c *QuizController) GetSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	scope, ok := parseScope(ctx)
	if !ok {
		return
	}

	view, err := c.Sessions.Get(user.UserID, scope)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
