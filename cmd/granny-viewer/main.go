package main

import (
	"context"
	"log"
	"runtime"

	"granny-viewer/internal/app"
	"granny-viewer/internal/config"
	"granny-viewer/internal/logger"
	"granny-viewer/internal/shutdown"
)

func main() {
	cfg, cfgErr := config.Load()

	appLogger := logger.New(logger.Options{Level: cfg.LogLevel, JSON: cfg.JSONLogs})
	if cfgErr != nil {
		appLogger.Warning("Main", "configuration problems, using defaults", map[string]interface{}{
			"problems": cfgErr.Error(),
		})
	}

	appLogger.Info("Main", "runtime", map[string]interface{}{
		"go_version": runtime.Version(),
		"goos":       runtime.GOOS,
		"goarch":     runtime.GOARCH,
		"log_level":  cfg.LogLevel,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.NewApplication(cfg, appLogger)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	shutdownManager := shutdown.NewManager(appLogger)
	shutdownManager.Register(application)
	shutdownManager.Listen()

	if err := application.Run(ctx); err != nil {
		log.Fatalf("Application execution failed: %v", err)
	}

	shutdownManager.Shutdown()
	appLogger.Info("Main", "application terminated", nil)
}
