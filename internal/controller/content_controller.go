package controller

import (
	"skillbridge_backend/internal/service"
	"skillbridge_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Service *service.ContentService
}

func NewContentController(svc *service.ContentService) *ContentController {
	return &ContentController{Service: svc}
}

func paramUint(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// @Summary List training programs
// @Tags catalog
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param category query string false "Category filter"
// @Success 200 {object} util.Response
// @Router /programs [get]
func (c *ContentController) ListPrograms(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	category := ctx.Query("category")

	programs, total, err := c.Service.ListPrograms(page, limit, category, true)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": programs, "total": total})
}

// @Summary Get one program with its modules and videos
// @Tags catalog
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} util.Response
// @Router /programs/{id} [get]
func (c *ContentController) GetProgram(ctx *gin.Context) {
	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	program, err := c.Service.GetProgram(programID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, program)
}

// @Summary Create a training program
// @Tags trainer
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ProgramReq true "Program details"
// @Success 201 {object} util.Response
// @Router /trainer/programs [post]
func (c *ContentController) CreateProgram(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProgramReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	program, err := c.Service.CreateProgram(user.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, program)
}

// @Summary Update a training program
// @Tags trainer
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param body body service.ProgramReq true "Program details"
// @Success 200 {object} util.Response
// @Router /trainer/programs/{id} [put]
func (c *ContentController) UpdateProgram(ctx *gin.Context) {
	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.ProgramReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	program, err := c.Service.UpdateProgram(programID, req)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, program)
}

// @Summary Delete a training program
// @Tags trainer
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Success 200 {object} util.Response
// @Router /trainer/programs/{id} [delete]
func (c *ContentController) DeleteProgram(ctx *gin.Context) {
	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	if err := c.Service.DeleteProgram(programID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": programID})
}

// @Summary Add a module to a program
// @Tags trainer
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param body body service.ModuleReq true "Module details"
// @Success 201 {object} util.Response
// @Router /trainer/programs/{id}/modules [post]
func (c *ContentController) AddModule(ctx *gin.Context) {
	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.ModuleReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.Service.AddModule(programID, req)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Created(ctx, module)
}

// @Summary Remove a module from a program
// @Tags trainer
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param moduleId path int true "Module ID"
// @Success 200 {object} util.Response
// @Router /trainer/programs/{id}/modules/{moduleId} [delete]
func (c *ContentController) DeleteModule(ctx *gin.Context) {
	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}
	moduleID, ok := paramUint(ctx, "moduleId")
	if !ok {
		return
	}

	if err := c.Service.DeleteModule(programID, moduleID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": moduleID})
}

// @Summary Add a video to a module
// @Tags trainer
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param moduleId path int true "Module ID"
// @Param body body service.VideoReq true "Video metadata"
// @Success 201 {object} util.Response
// @Router /trainer/programs/{id}/modules/{moduleId}/videos [post]
func (c *ContentController) AddVideo(ctx *gin.Context) {
	programID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}
	moduleID, ok := paramUint(ctx, "moduleId")
	if !ok {
		return
	}

	var req service.VideoReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	video, err := c.Service.AddVideo(programID, moduleID, req)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Created(ctx, video)
}

// @Summary Remove a video from a module
// @Tags trainer
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param moduleId path int true "Module ID"
// @Param videoId path int true "Video ID"
// @Success 200 {object} util.Response
// @Router /trainer/programs/{id}/modules/{moduleId}/videos/{videoId} [delete]
func (c *ContentController) DeleteVideo(ctx *gin.Context) {
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

	if err := c.Service.DeleteVideo(programID, moduleID, videoID); err != nil {
		respondDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": videoID})
}
