package controller

import (
	"errors"
	"strconv"

	"github.com/Sean-Brix/RiderMind-sub000/internal/service"
	"github.com/Sean-Brix/RiderMind-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(svc *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: svc}
}

// Enroll godoc
// @Summary 加入学习模块
// @Description 幂等操作：重复加入返回既有的进度记录
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id}/enroll [post]
func (c *ProgressController) Enroll(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	e, enrollErr := c.ProgressService.Enroll(user.UserID, uint(id))
	if enrollErr != nil {
		if errors.Is(enrollErr, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, enrollErr)
		}
		return
	}

	util.Success(ctx, e)
}

// GetModuleProgress godoc
// @Summary 获取本人在某模块的进度
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response{data=service.ModuleProgress}
// @Failure 404 {object} util.Response "未选课"
// @Router /api/modules/{id}/progress [get]
func (c *ProgressController) GetModuleProgress(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, progressErr := c.ProgressService.GetModuleProgress(user.UserID, uint(id))
	if progressErr != nil {
		if errors.Is(progressErr, util.ErrNotEnrolled) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, progressErr)
		}
		return
	}

	util.Success(ctx, progress)
}

// ListProgress godoc
// @Summary 获取本人全部模块进度
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.ModuleProgress}
// @Router /api/progress [get]
func (c *ProgressController) ListProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.ProgressService.ListUserProgress(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, list)
}
