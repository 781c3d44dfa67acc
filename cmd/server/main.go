package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/arturoeanton/codeguard/internal/app"
	"github.com/arturoeanton/codeguard/internal/handler"
	"github.com/arturoeanton/codeguard/internal/middleware"
	"github.com/arturoeanton/codeguard/pkg/config"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting CodeGuard",
		"port", cfg.Port,
		"endpoint", cfg.DeepSeekURL,
		"model", cfg.DeepSeekModel,
		"credential", cfg.Credential.String(),
		"activity_log", cfg.ActivityLogPath,
		"timeout", cfg.RequestTimeout,
	)
	if !cfg.Online() {
		slog.Warn("DEEPSEEK_API_KEY missing: server is OFFLINE, audits are disabled until it is set")
	} else if !cfg.Credential.LooksValid() {
		slog.Warn("DEEPSEEK_API_KEY does not look like a real key")
	}

	// ── Services ─────────────────────────────────────────────────────────
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialise services", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// ── Fiber App ────────────────────────────────────────────────────────
	srv := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	// Global middleware
	srv.Use(recover.New())
	srv.Use(fiberlogger.New())
	srv.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))
	srv.Use(middleware.RequestContext(cfg.RequestTimeout / 2))

	// ── Routes ───────────────────────────────────────────────────────────
	srv.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	webHandler := handler.NewWebHandler(cfg, a.Audit, a.Activity)
	webHandler.Register(srv)

	api := srv.Group("/api/v1")
	auditHandler := handler.NewAuditHandler(cfg, a.Audit, a.Activity)
	auditHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := srv.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
