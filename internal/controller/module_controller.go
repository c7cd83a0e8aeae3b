package controller

import (
	"errors"
	"strconv"

	"github.com/Sean-Brix/RiderMind-sub000/internal/service"
	"github.com/Sean-Brix/RiderMind-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ModuleController struct {
	ModuleService *service.ModuleService
}

func NewModuleController(svc *service.ModuleService) *ModuleController {
	return &ModuleController{ModuleService: svc}
}

// ListModules godoc
// @Summary 获取学习模块列表
// @Description 分页返回已发布的学习模块
// @Tags 学习模块
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.PageResponse
// @Router /api/modules [get]
func (c *ModuleController) ListModules(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	modules, total, err := c.ModuleService.ListModules(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  modules,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetModule godoc
// @Summary 获取模块详情
// @Description 返回模块及其幻灯片和测验摘要（不含题目）
// @Tags 学习模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response{data=service.ModuleDetail}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id} [get]
func (c *ModuleController) GetModule(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	detail, err := c.ModuleService.GetModule(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}
