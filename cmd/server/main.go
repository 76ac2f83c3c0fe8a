package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/cookiverse/cookiverse/internal/backend"
	"github.com/cookiverse/cookiverse/internal/config"
	"github.com/cookiverse/cookiverse/internal/handlers"
	"github.com/cookiverse/cookiverse/internal/logging"
	"github.com/cookiverse/cookiverse/internal/middleware"
	"github.com/cookiverse/cookiverse/internal/routes"
	"github.com/cookiverse/cookiverse/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Storage backend; the mode is fixed from here on
	b, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("storage backend init failed", "mode", cfg.StorageMode, "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(b.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbLogHandler,
	)).With("mode", string(b.Mode)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(b.DB, cfg.LogRetentionDays, cleanupDone)

	// Services
	generation, err := services.NewGenerationServiceFromConfig(ctx, cfg)
	if err != nil {
		slog.Error("generation service init failed", "error", err)
		os.Exit(1)
	}
	if !generation.Configured() {
		slog.Warn("no generation API key configured, /api/gemini will answer 503")
	}

	var recipeOpts []services.RecipeServiceOption
	if cache := b.Cache(); cache != nil {
		recipeOpts = append(recipeOpts, services.WithCache(cache))
	}
	recipeService := services.NewRecipeService(b.Store, recipeOpts...)
	kitchenService := services.NewKitchenService(generation, recipeService)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTAccessExpiry)

	// Handlers
	authHandler := handlers.NewAuthHandler(b.Provider, tokenService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, kitchenService)
	geminiHandler := handlers.NewGeminiHandler(generation)
	healthHandler := handlers.NewHealthHandler(string(b.Mode), b.DB, generation)

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
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  cfg.AITimeout + 10*time.Second,
		WriteTimeout: cfg.AITimeout + 10*time.Second,
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
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authHandler, recipeHandler, geminiHandler, healthHandler)

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

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := b.Close(); err != nil {
		slog.Error("backend close error", "error", err)
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
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "request_id", c.Locals("requestid"), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
