package controller

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/service"
	"skillbridge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Service *service.UserService
}

func NewUserController(svc *service.UserService) *UserController {
	return &UserController{Service: svc}
}

// @Summary Update the caller's role-specific profile
// @Description The payload shape depends on the caller's role; each role has
// @Description its own profile variant.
// @Tags user
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	switch user.Role {
	case model.Trainee:
		var req service.TraineeProfileReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		p, err := c.Service.UpdateTraineeProfile(user.UserID, req)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, p)
	case model.Trainer:
		var req service.TrainerProfileReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		p, err := c.Service.UpdateTrainerProfile(user.UserID, req)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, p)
	case model.Recruiter:
		var req service.RecruiterProfileReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		p, err := c.Service.UpdateRecruiterProfile(user.UserID, req)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, p)
	default:
		util.Forbidden(ctx)
	}
}
