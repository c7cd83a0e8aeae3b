package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sean-Brix/RiderMind-sub000/internal/config"
	"github.com/Sean-Brix/RiderMind-sub000/internal/controller"
	"github.com/Sean-Brix/RiderMind-sub000/internal/repository"
	"github.com/Sean-Brix/RiderMind-sub000/internal/service"
	"github.com/Sean-Brix/RiderMind-sub000/pkg/database"
	"github.com/Sean-Brix/RiderMind-sub000/pkg/logger"
	"github.com/Sean-Brix/RiderMind-sub000/pkg/monitoring"
	"github.com/Sean-Brix/RiderMind-sub000/pkg/security"
	"github.com/Sean-Brix/RiderMind-sub000/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	module     *repository.ModuleRepository
	quiz       *repository.QuizRepository
	attempt    *repository.AttemptRepository
	enrollment *repository.EnrollmentRepository
}

type services struct {
	auth     *service.AuthService
	module   *service.ModuleService
	quiz     *service.QuizService
	progress *service.ProgressService
}

type controllers struct {
	auth     *controller.AuthController
	module   *controller.ModuleController
	quiz     *controller.QuizController
	progress *controller.ProgressController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		module:     repository.NewModuleRepository(db),
		quiz:       repository.NewQuizRepository(db),
		attempt:    repository.NewAttemptRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	return &services{
		auth:     service.NewAuthService(repos.user, cfg),
		module:   service.NewModuleService(repos.module, repos.quiz),
		quiz:     service.NewQuizService(repos.quiz, repos.attempt, repos.enrollment, rdb, db),
		progress: service.NewProgressService(repos.enrollment, repos.module),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		module:   controller.NewModuleController(s.module),
		quiz:     controller.NewQuizController(s.quiz),
		progress: controller.NewProgressController(s.progress),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("ridermind", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

// ReloadConfig 热更新配置：就地覆盖共享的配置对象，
// 持有该指针的组件（JWT 校验、认证服务）即时生效。
func (a *App) ReloadConfig(newCfg *config.Config) {
	newCfg.ForceMigrate = a.Config.ForceMigrate
	newCfg.MigrateOnly = a.Config.MigrateOnly
	*a.Config = *newCfg
	logger.Log.Info("Config reloaded")
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
