package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/mybenefit/fitness-backend/internal/apps"
	"github.com/mybenefit/fitness-backend/internal/apps/activity"
	"github.com/mybenefit/fitness-backend/internal/apps/analytics"
	"github.com/mybenefit/fitness-backend/internal/apps/dashboard"
	"github.com/mybenefit/fitness-backend/internal/apps/goals"
	"github.com/mybenefit/fitness-backend/internal/apps/profile"
	"github.com/mybenefit/fitness-backend/internal/apps/workouts"
	"github.com/mybenefit/fitness-backend/internal/config"
	"github.com/mybenefit/fitness-backend/internal/database"
	"github.com/mybenefit/fitness-backend/internal/handlers"
	"github.com/mybenefit/fitness-backend/internal/logging"
	"github.com/mybenefit/fitness-backend/internal/middleware"
	"github.com/mybenefit/fitness-backend/internal/models"
	"github.com/mybenefit/fitness-backend/internal/routes"
	"github.com/mybenefit/fitness-backend/internal/scheduler"
	"github.com/mybenefit/fitness-backend/internal/services"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"gorm.io/gorm"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Migrate shared models
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// In-process change broker for the SSE streams
	broker := subscription.NewBroker()

	// Services
	accountService := services.NewAccountService(database.DB, broker)
	profileService := profile.NewService(database.DB, broker)
	dashboardService := dashboard.NewService(database.DB, broker)

	authService := services.NewAuthService(database.DB, cfg, services.Lifecycle{
		OnUserCreated: func(tx *gorm.DB, user *models.User) error {
			if _, err := profileService.Seed(tx, user.ID, user.Email, user.DisplayName, user.PhotoURL); err != nil {
				return err
			}
			_, err := dashboardService.SeedDefaults(tx, user.ID)
			return err
		},
		OnUserDeleted: accountService.Purge,
		AfterUserDeleted: func(userID uuid.UUID) {
			accountService.Notify(userID)
		},
	})

	// Register plugins
	plugins := []apps.Plugin{
		activity.New(),
		goals.New(),
		workouts.New(),
		dashboard.New(),
		analytics.New(),
		profile.New(),
	}

	// Migrate plugin models
	for _, p := range plugins {
		if pluginModels := p.Models(); len(pluginModels) > 0 {
			if err := database.MigrateModels(pluginModels); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(pluginModels))
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(cfg)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, broker, authHandler, healthHandler, plugins)

	// Rollup jobs
	rollups, err := scheduler.New(database.DB, broker, cfg)
	if err != nil {
		slog.Error("scheduler init failed", "error", err)
		os.Exit(1)
	}
	rollups.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	rollups.Stop()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
