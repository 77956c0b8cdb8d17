package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"newsgraph/backend/internal/app"
	"newsgraph/backend/internal/reliability"
	"newsgraph/backend/pkg/config"
	"newsgraph/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting reliability post-processor...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := app.ConnectGraph(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer repo.Close(context.Background())

	summary, err := reliability.NewProcessor(repo, cfg.ReliabilityBatchSize).Run(ctx)
	if err != nil {
		log.Fatal("Reliability run failed", zap.Error(err))
	}

	log.Info("Reliability scores written",
		zap.Int("deleted", summary.Deleted),
		zap.Int("scored", summary.Scored),
		zap.Int("written", summary.Written),
		zap.Duration("duration", summary.Duration),
	)
}
