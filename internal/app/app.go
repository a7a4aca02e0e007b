package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"examind_backend/internal/config"
	"examind_backend/internal/controller"
	"examind_backend/internal/grading"
	"examind_backend/internal/judge"
	"examind_backend/internal/repository"
	"examind_backend/internal/service"
	"examind_backend/pkg/database"
	"examind_backend/pkg/logger"
	"examind_backend/pkg/monitoring"
	"examind_backend/pkg/security"
	"examind_backend/pkg/tracing"

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
	quiz       *repository.QuizRepository
	question   *repository.QuestionRepository
	submission *repository.SubmissionRepository
}

type services struct {
	auth     *service.AuthService
	quiz     *service.QuizService
	question *service.QuestionService
	grading  *service.GradingService
}

type controllers struct {
	auth     *controller.AuthController
	quiz     *controller.QuizController
	question *controller.QuestionController
	grading  *controller.GradingController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		quiz:       repository.NewQuizRepository(db),
		question:   repository.NewQuestionRepository(db),
		submission: repository.NewSubmissionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	executor := judge.NewClient(cfg.Judge0)

	registry := grading.DefaultRegistry()
	for qt, strategy := range cfg.Grading.StrategyOverrides {
		t := grading.QuestionType(qt)
		if !t.Valid() {
			logger.Log.Warn("Ignoring grading strategy override for unknown question type", zap.String("type", qt))
			continue
		}
		typeCfg := registry.For(t)
		typeCfg.Strategy = grading.GradingStrategy(strategy)
		registry.Set(t, typeCfg)
	}
	engine := grading.NewEngine(executor, registry)

	return &services{
		auth:     service.NewAuthService(repos.user, cfg),
		quiz:     service.NewQuizService(repos.quiz, repos.question),
		question: service.NewQuestionService(repos.question, repos.quiz),
		grading:  service.NewGradingService(repos.submission, repos.quiz, repos.question, engine, rdb),
	}
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		quiz:     controller.NewQuizController(s.quiz),
		question: controller.NewQuestionController(s.question),
		grading:  controller.NewGradingController(s.grading),
		health:   controller.NewHealthController(),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

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
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("examind-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

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
