package controller

import (
	"errors"

	"github.com/Sean-Brix/RiderMind-sub000/internal/service"
	"github.com/Sean-Brix/RiderMind-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{QuizService: svc}
}

// GetQuiz godoc
// @Summary 获取测验（学生视图）
// @Description 返回去掉正确答案标记的测验定义，论述题不返回选项
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response{data=model.StudentQuiz}
// @Failure 404 {object} util.Response "测验不存在或未发布"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quizID := ctx.Param("id")

	quiz, err := c.QuizService.GetStudentQuiz(ctx.Request.Context(), quizID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrQuizNotPublished):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// Submit godoc
// @Summary 提交测验答卷
// @Description 整卷评分并落库，返回成绩与重考资格
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Param body body service.SubmitRequest true "答卷"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "答卷形状非法，未产生任何记录"
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "测验不存在或未发布"
// @Failure 409 {object} util.Response "尝试次数已用尽"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	quizID := ctx.Param("id")

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.TimeSpent < 0 {
		util.BadRequest(ctx, "timeSpent must be non-negative")
		return
	}

	result, err := c.QuizService.Submit(ctx.Request.Context(), user.UserID, quizID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMalformedSubmission):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrNotEnrolled):
			util.Error(ctx, 403, "请先加入该模块再参加测验")
		case errors.Is(err, util.ErrAttemptLimitReached):
			util.Conflict(ctx, "尝试次数已用尽")
		case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrQuizNotPublished):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// ListAttempts godoc
// @Summary 获取本人某测验的历史答卷
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/quizzes/{id}/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	quizID := ctx.Param("id")

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.QuizService.ListAttempts(user.UserID, quizID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

// GetAttempt godoc
// @Summary 获取答卷详情
// @Description 仅答卷本人可见，含逐题判分记录
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path string true "答卷ID"
// @Success 200 {object} util.Response{data=model.QuizAttempt}
// @Failure 404 {object} util.Response "答卷不存在"
// @Router /api/attempts/{id} [get]
func (c *QuizController) GetAttempt(ctx *gin.Context) {
	attemptID := ctx.Param("id")

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.QuizService.GetAttempt(user.UserID, attemptID)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}
