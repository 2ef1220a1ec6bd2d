package main

import (
	"log"

	"github.com/fleeter/fleeter/internal/router"
	"github.com/fleeter/fleeter/pkg/config"
	"github.com/fleeter/fleeter/pkg/logger"
	"github.com/fleeter/fleeter/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	// Initialize store connections
	db, err := config.InitDB(cfg)
	if err != nil {
		zapLog.Fatal("failed to initialize stores", zap.Error(err))
	}
	defer func() {
		if err := db.CloseDB(); err != nil {
			zapLog.Error("failed to close stores", zap.Error(err))
		}
	}()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e, zapLog)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db.Gorm, db.Redis, cfg, zapLog); err != nil {
		zapLog.Fatal("failed to set up routes", zap.Error(err))
	}

	// Start server
	zapLog.Info("starting server", zap.String("addr", cfg.ServerAddr))
	if err := e.Start(cfg.ServerAddr); err != nil {
		zapLog.Fatal("server stopped", zap.Error(err))
	}
}
