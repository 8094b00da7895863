package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pedidos-mostrador/app"
	"pedidos-mostrador/config"
	"pedidos-mostrador/logger"
)

const serviceName = "pedidos-mostrador"

func main() {
	// Load configuration (.env is applied when present)
	cfg, err := config.Load(serviceName)
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.InitLogger(cfg)
	defer log.Sync()
	log.Info("Starting "+serviceName, cfg.LogFields()...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize application
	application, err := app.Initialize(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := application.Run(ctx); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
	}
	log.Info("Server stopped")
}
