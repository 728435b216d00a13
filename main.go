package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"flowpilot/config"
	"flowpilot/internal/bootstrap"
	"flowpilot/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if exists (for local development)
	envErr := godotenv.Load()

	logger.Init(logger.Config{
		Level:   logger.ParseLevel(os.Getenv("LOG_LEVEL")),
		Service: "flowpilot",
	})
	if envErr != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := bootstrap.NewAPI(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize API: %v", err)
	}
	defer cleanup()

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down API server (timeout: %v)...", cfg.ShutdownTimeout)

		// Open activity streams would otherwise hold the shutdown.
		cleanup()
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			logger.Error("Error shutting down: %v", err)
			return
		}
		logger.Info("API server shut down gracefully")
	}()

	addr := ":" + cfg.Port
	logger.Info("Starting API server on %s (store: %s)", addr, cfg.StoreBackend)
	if err := app.Listen(addr); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
