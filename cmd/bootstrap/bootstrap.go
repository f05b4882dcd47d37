package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-healthbot/config"
	deliveryHttp "go-healthbot/internal/delivery/http"
	"go-healthbot/internal/delivery/http/handler"
	"go-healthbot/internal/delivery/http/middleware"
	domainRepo "go-healthbot/internal/domain/repository"
	"go-healthbot/internal/infrastructure/cache"
	"go-healthbot/internal/infrastructure/database"
	"go-healthbot/internal/infrastructure/email"
	"go-healthbot/internal/infrastructure/llm"
	"go-healthbot/internal/infrastructure/metrics"
	"go-healthbot/internal/repository"
	"go-healthbot/internal/service"
	"go-healthbot/internal/usecase"
	"go-healthbot/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	TurnLock    *service.TurnLockService
	Chat        usecase.ChatUsecase
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	// Apply schema and doctor seed before gorm takes the pool
	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logrus.Info("Database migrations applied")
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Redis is only needed when sessions live there
	if cfg.Session.Backend == config.SessionBackendRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		logrus.Info("Redis connected successfully")
	}

	if cfg.App.SerializeTurns {
		app.TurnLock = service.NewTurnLockService(logrus.StandardLogger())
	}

	// Initialize all layers
	app.Server, app.Chat = initializeServer(cfg, db, app.RedisClient, app.TurnLock)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, turnLock *service.TurnLockService) (*http.Server, usecase.ChatUsecase) {
	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	chatMetrics := metrics.NewChatMetrics(registry)

	// Initialize repositories
	doctorRepo := repository.NewDoctorRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	var sessionRepo domainRepo.SessionRepository
	if redisClient != nil {
		sessionRepo = repository.NewRedisSessionRepository(redisClient, cfg.Session.TTL)
	} else {
		sessionRepo = repository.NewMemorySessionRepository()
	}

	// Initialize side-effect ports
	var notifier service.Notifier = email.NewLogNotifier(log)
	if sendGrid := email.NewSendGridNotifier(cfg.Email, log); sendGrid != nil {
		notifier = sendGrid
	} else {
		log.Warn("SENDGRID_API_KEY not set, confirmation emails are only logged")
	}

	var generator service.TextGenerator
	if openAI := llm.NewOpenAIClient(cfg.LLM); openAI != nil {
		generator = openAI
	} else {
		log.Warn("OPENAI_API_KEY not set, health queries use rule-based advice")
	}

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	notificationService := service.NewNotificationService(notifier, log, cfg.Email.Timeout, cfg.Email.Retries)
	adviceService := service.NewHealthAdviceService(generator, log, cfg.LLM.Timeout)

	// Initialize usecases
	chatUsecase := usecase.NewChatUsecase(log, sessionRepo, doctorRepo, appointmentRepo, notificationService, auditService, adviceService, chatMetrics)
	doctorUsecase := usecase.NewDoctorUsecase(log, doctorRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, appointmentRepo)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatUsecase, customValidator, turnLock)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigin)

	// Initialize router
	router := deliveryHttp.NewRouter(chatHandler, doctorHandler, appointmentHandler, corsMiddleware,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, chatUsecase
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Let in-flight notifications finish before the pools close
	if app.Chat != nil {
		app.Chat.Wait()
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close releases the turn lock janitor and closes all connections
func (app *App) Close() {
	if app.TurnLock != nil {
		app.TurnLock.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
