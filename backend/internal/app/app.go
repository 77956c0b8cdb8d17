// Package app wires configuration into the crawl pipeline shared by the
// binaries.
package app

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"newsgraph/backend/internal/corpus"
	"newsgraph/backend/internal/crawler"
	"newsgraph/backend/internal/graph"
	"newsgraph/backend/internal/sentiment"
	"newsgraph/backend/internal/services"
	"newsgraph/backend/pkg/config"
	apperrors "newsgraph/backend/pkg/errors"
	"newsgraph/backend/pkg/logger"
)

// ConnectGraph opens the Neo4j driver, verifies it and ensures the article
// schema exists
func ConnectGraph(ctx context.Context, cfg *config.Config) (*graph.Repository, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)
	}

	repo := graph.NewRepository(driver)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = repo.Close(ctx)
		return nil, err
	}
	return repo, nil
}

// Pipeline holds everything a topic crawl needs
type Pipeline struct {
	Runner *services.TopicRunner

	closers []func() error
}

// NewPipeline builds the fetcher, analyzer, corpus builder and crawler
// selected by cfg around store
func NewPipeline(ctx context.Context, cfg *config.Config, store crawler.Store) (*Pipeline, error) {
	log := logger.Named("app")
	p := &Pipeline{}

	var fetcher crawler.Fetcher
	switch cfg.FetchMode {
	case config.FetchModeBrowser:
		bf, err := crawler.NewBrowserFetcher(cfg.FetchTimeout)
		if err != nil {
			return nil, fmt.Errorf("start browser: %w", err)
		}
		p.closers = append(p.closers, bf.Close)
		fetcher = bf
	default:
		fetcher = crawler.NewHTTPFetcher(cfg.FetchTimeout)
	}

	var analyzer crawler.Analyzer
	switch cfg.SentimentMode {
	case config.SentimentModeLLM:
		analyzer = sentiment.NewLLMAnalyzer(cfg.LLMURL, cfg.LLMAPIKey, cfg.LLMModel)
	default:
		analyzer = sentiment.NewLexicon()
	}

	opts := []corpus.Option{corpus.WithMaxPages(cfg.CorpusMaxPages)}
	cached := false
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("Corpus cache unavailable, continuing without it",
				zap.String("addr", cfg.RedisAddr),
				zap.Error(err),
			)
			_ = client.Close()
		} else {
			p.closers = append(p.closers, client.Close)
			opts = append(opts, corpus.WithCache(corpus.NewRedisCache(client, cfg.CorpusCacheTTL)))
			cached = true
		}
	}
	builder := corpus.NewBuilder(corpus.NewNewsAPIClient(cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.CorpusPageSize), opts...)

	controller := crawler.NewController(fetcher, crawler.NewTimeExtractor(), analyzer, store, crawler.Options{
		Workers:      cfg.Workers,
		MaxDepth:     cfg.MaxDepth,
		MaxNodes:     cfg.MaxNodes,
		HostRPS:      cfg.HostRPS,
		JobTimeout:   cfg.JobTimeout,
		DenyPatterns: cfg.DenyPatterns,
	})

	p.Runner = services.NewTopicRunner(builder, controller, cfg.SeedURL, cfg.TopicConcurrency)

	log.Info("Pipeline ready",
		zap.String("fetch_mode", cfg.FetchMode),
		zap.String("sentiment_mode", cfg.SentimentMode),
		zap.Bool("corpus_cache", cached),
	)
	return p, nil
}

// Close releases the browser and cache connections
func (p *Pipeline) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
