package app

import (
	"skillbridge_backend/internal/config"
	"skillbridge_backend/internal/controller"
	"skillbridge_backend/internal/repository"
	"skillbridge_backend/internal/service"
	"skillbridge_backend/pkg/database"
	"skillbridge_backend/pkg/logger"
	"skillbridge_backend/pkg/monitoring"
	"skillbridge_backend/pkg/security"
	"skillbridge_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	program    *repository.ProgramRepository
	quiz       *repository.QuizRepository
	enrollment repository.EnrollmentRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	content    *service.ContentService
	quiz       *service.QuizService
	enrollment *service.EnrollmentService
	sessions   *service.SessionManager
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	content    *controller.ContentController
	quiz       *controller.QuizController
	enrollment *controller.EnrollmentController
	health     *controller.HealthController
}

func (a *App) initRepositories(db, fallback *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		program:    repository.NewProgramRepository(db),
		quiz:       repository.NewQuizRepository(db),
		enrollment: repository.NewEnrollmentRepository(db, fallback),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.content = service.NewContentService(repos.program, rdb)
	s.quiz = service.NewQuizService(repos.quiz)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.program)
	s.sessions = service.NewSessionManager(s.quiz, s.enrollment, cfg.Quiz.PassPercent)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		user:       controller.NewUserController(s.user),
		content:    controller.NewContentController(s.content),
		quiz:       controller.NewQuizController(s.quiz, s.sessions),
		enrollment: controller.NewEnrollmentController(s.enrollment, s.content),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
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

func (a *App) startBackgroundTasks(s *services) {
	// Degraded enrollments are flushed back into the primary store once it
	// recovers.
	interval := time.Duration(a.Config.Fallback.ReconcileMinutes) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := s.enrollment.ReconcileFallback(); err != nil {
				logger.Log.Error("fallback reconcile error", zap.Error(err))
			}
		}
	}()
}

// ApplyConfig re-applies hot-reloadable settings.
func (a *App) ApplyConfig(cfg *config.Config) {
	if a.services != nil && a.services.sessions != nil {
		a.services.sessions.SetPassPercent(cfg.Quiz.PassPercent)
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	fallback, err := database.InitFallbackDB(cfg.Fallback.Path)
	if err != nil {
		// Degraded mode is best-effort extra resilience; the service runs
		// without it.
		logger.Log.Warn("Fallback store unavailable", zap.Error(err))
		fallback = nil
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

	repos := app.initRepositories(db, fallback)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("skillbridge-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)

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

	// Live quiz sessions are in-memory; stop their tickers before exiting.
	if a.services != nil && a.services.sessions != nil {
		a.services.sessions.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
