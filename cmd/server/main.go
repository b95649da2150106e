package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

func main() {
	// Structured logging (JSON to stdout) until the configuration is known
	logging.Setup("")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.AppEnv)

	// Missing secrets are configuration faults, not startup failures: the
	// endpoints that need them answer 500 until they are set.
	for _, problem := range cfg.Validate() {
		slog.Error("configuration fault", "error", problem.Error())
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	logHandler := setupLogging(cfg, db)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// Services
	verifier := services.NewGoogleVerifier(cfg.GoogleJWKSURL, cfg.GoogleVerifyTimeout)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTTokenTTL)
	userService := services.NewUserService(db)
	authService := services.NewAuthService(verifier, userService, tokenService, cfg.GoogleClientID)
	connectionService := services.NewConnectionService(db)
	preferenceService := services.NewPreferenceService(db)
	onboardingService := services.NewOnboardingService(db)

	// Handlers
	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService, collector),
		Health:      handlers.NewHealthHandler(db),
		Connections: handlers.NewConnectionHandler(connectionService),
		Preferences: handlers.NewPreferenceHandler(preferenceService, onboardingService),
		Metrics:     metrics.Handler(registry),
	}
	authenticate := middleware.Authenticate(middleware.AuthConfig{
		Tokens:  tokenService,
		Users:   userService,
		Metrics: collector,
	})

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

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
	app.Use(middleware.SecurityHeaders())
	app.Use(collector.Middleware())

	routes.Setup(app, h, authenticate)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	verifier.Close()
	logHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// setupLogging installs the default logger: JSON on stdout at the level
// cfg.AppEnv selects, plus ERROR+ records batched into system_logs.
func setupLogging(cfg *config.Config, db *gorm.DB) *logging.MultiHandler {
	handler := logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout, cfg.AppEnv),
		logging.NewDBHandler(db, 5*time.Second),
	)
	slog.SetDefault(slog.New(handler))
	return handler
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}
