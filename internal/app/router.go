package app

import (
	"github.com/Sean-Brix/RiderMind-sub000/docs"
	"github.com/Sean-Brix/RiderMind-sub000/internal/config"
	"github.com/Sean-Brix/RiderMind-sub000/internal/middleware"
	"github.com/Sean-Brix/RiderMind-sub000/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/auth/me", c.auth.Me)

		// 学习模块目录
		authGroup.GET("/modules", c.module.ListModules)
		authGroup.GET("/modules/:id", c.module.GetModule)

		// 选课与进度
		authGroup.POST("/modules/:id/enroll", c.progress.Enroll)
		authGroup.GET("/modules/:id/progress", c.progress.GetModuleProgress)
		authGroup.GET("/progress", c.progress.ListProgress)

		// 测验
		authGroup.GET("/quizzes/:id", c.quiz.GetQuiz)
		authGroup.POST("/quizzes/:id/submit", c.quiz.Submit)
		authGroup.GET("/quizzes/:id/attempts", c.quiz.ListAttempts)
		authGroup.GET("/attempts/:id", c.quiz.GetAttempt)
	}
}
