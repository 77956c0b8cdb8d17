package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"newsgraph/backend/internal/app"
	"newsgraph/backend/internal/crawler"
	"newsgraph/backend/internal/graph"
	"newsgraph/backend/pkg/config"
	"newsgraph/backend/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "crawl into an in-memory graph and print it instead of writing to Neo4j")
	flag.Parse()

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
	log.Info("Starting crawler...",
		zap.Strings("topics", cfg.Topics),
		zap.Bool("dry_run", *dryRun),
	)

	if err := cfg.ValidateCrawl(); err != nil {
		log.Fatal("Invalid crawl configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store crawler.Store
	var memory *graph.MemoryStore
	if *dryRun {
		memory = graph.NewMemoryStore()
		store = memory
	} else {
		repo, err := app.ConnectGraph(ctx, cfg)
		if err != nil {
			log.Fatal("Failed to connect to Neo4j", zap.Error(err))
		}
		defer repo.Close(context.Background())
		store = repo
	}

	pipeline, err := app.NewPipeline(ctx, cfg, store)
	if err != nil {
		log.Fatal("Failed to build pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	runID := time.Now().UTC().Format("20060102T150405")
	summary := pipeline.Runner.RunAll(ctx, runID, cfg.Topics)

	for _, o := range summary.Topics {
		if o.Failed() {
			log.Warn("Topic failed", zap.String("topic", o.Topic), zap.String("error", o.Error))
			continue
		}
		log.Info("Topic crawled",
			zap.String("topic", o.Topic),
			zap.Int("pages", o.Result.PagesFetched),
			zap.Int("nodes_created", o.Result.NodesCreated),
			zap.Int("edges", o.Result.EdgesWritten),
			zap.Int("failed_edges", len(o.Result.FailedEdges)),
			zap.Bool("timed_out", o.Result.TimedOut),
			zap.Duration("duration", o.Duration),
		)
	}

	if memory != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Articles   []graph.Article   `json:"articles"`
			References []graph.Reference `json:"references"`
		}{memory.Articles(), memory.References()}); err != nil {
			log.Error("Failed to print graph", zap.Error(err))
		}
	}

	if summary.Failed == len(summary.Topics) && len(summary.Topics) > 0 {
		log.Error("Every topic failed")
		logger.Sync()
		os.Exit(1)
	}
	log.Info("Crawler finished", zap.Int("failed_topics", summary.Failed))
}
