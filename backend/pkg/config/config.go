package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"newsgraph/backend/internal/constants"
	apperrors "newsgraph/backend/pkg/errors"
)

// Fetch modes
const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// Sentiment modes
const (
	SentimentModeLexicon = "lexicon"
	SentimentModeLLM     = "llm"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Corpus
	NewsAPIKey     string
	NewsAPIURL     string
	CorpusMaxPages int
	CorpusPageSize int
	RedisAddr      string // Optional corpus cache
	CorpusCacheTTL time.Duration

	// Crawl
	Topics           []string
	SeedTemplate     string // fmt template taking the topic, e.g. https://time.com/section/%s/
	Workers          int
	MaxDepth         int
	MaxNodes         int
	HostRPS          float64
	JobTimeout       time.Duration
	TopicConcurrency int
	FetchMode        string
	FetchTimeout     time.Duration
	DenyPatterns     []string

	// Sentiment
	SentimentMode string
	LLMURL        string
	LLMAPIKey     string
	LLMModel      string

	// Post-processing
	ReliabilityBatchSize int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", ""),
		Neo4jURI:             getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:            getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:        getEnv("NEO4J_PASSWORD", "password"),
		NewsAPIKey:           getEnv("NEWS_API_KEY", ""),
		NewsAPIURL:           getEnv("NEWS_API_URL", constants.DefaultNewsAPIURL),
		CorpusMaxPages:       getEnvInt("CORPUS_MAX_PAGES", 5),
		CorpusPageSize:       getEnvInt("CORPUS_PAGE_SIZE", 100),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		CorpusCacheTTL:       getEnvDuration("CORPUS_CACHE_TTL", 24*time.Hour),
		Topics:               getEnvList("CRAWL_TOPICS", constants.DefaultTopics),
		SeedTemplate:         getEnv("CRAWL_SEED_TEMPLATE", constants.DefaultSeedTemplate),
		Workers:              getEnvInt("CRAWL_WORKERS", 8),
		MaxDepth:             getEnvInt("CRAWL_MAX_DEPTH", 2),
		MaxNodes:             getEnvInt("CRAWL_MAX_NODES", 500),
		HostRPS:              getEnvFloat("CRAWL_HOST_RPS", 2),
		JobTimeout:           getEnvDuration("CRAWL_JOB_TIMEOUT", 10*time.Minute),
		TopicConcurrency:     getEnvInt("CRAWL_TOPIC_CONCURRENCY", 2),
		FetchMode:            getEnv("CRAWL_FETCH_MODE", FetchModeHTTP),
		FetchTimeout:         getEnvDuration("CRAWL_FETCH_TIMEOUT", 30*time.Second),
		DenyPatterns:         getEnvList("CRAWL_DENY_PATTERNS", nil),
		SentimentMode:        getEnv("SENTIMENT_MODE", SentimentModeLexicon),
		LLMURL:               getEnv("LLM_URL", "http://localhost:4000"),
		LLMAPIKey:            getEnv("LLM_API_KEY", ""),
		LLMModel:             getEnv("LLM_MODEL", "gpt-4o-mini"),
		ReliabilityBatchSize: getEnvInt("RELIABILITY_BATCH_SIZE", 500),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	if c.Workers <= 0 {
		return apperrors.NewConfigValidationFailed("CRAWL_WORKERS", "must be positive")
	}
	if c.MaxDepth < 1 {
		return apperrors.NewConfigValidationFailed("CRAWL_MAX_DEPTH", "must be at least 1")
	}
	if c.MaxNodes <= 0 {
		return apperrors.NewConfigValidationFailed("CRAWL_MAX_NODES", "must be positive")
	}
	if c.HostRPS <= 0 {
		return apperrors.NewConfigValidationFailed("CRAWL_HOST_RPS", "must be positive")
	}
	if c.TopicConcurrency <= 0 {
		return apperrors.NewConfigValidationFailed("CRAWL_TOPIC_CONCURRENCY", "must be positive")
	}
	if c.CorpusMaxPages <= 0 {
		return apperrors.NewConfigValidationFailed("CORPUS_MAX_PAGES", "must be positive")
	}
	if !strings.Contains(c.SeedTemplate, "%s") {
		return apperrors.NewConfigValidationFailed("CRAWL_SEED_TEMPLATE", "must contain %s for the topic")
	}
	switch c.FetchMode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		return apperrors.NewConfigValidationFailed("CRAWL_FETCH_MODE", fmt.Sprintf("unknown mode %q", c.FetchMode))
	}
	switch c.SentimentMode {
	case SentimentModeLexicon, SentimentModeLLM:
	default:
		return apperrors.NewConfigValidationFailed("SENTIMENT_MODE", fmt.Sprintf("unknown mode %q", c.SentimentMode))
	}
	return nil
}

// ValidateCrawl checks the values only the crawler needs
func (c *Config) ValidateCrawl() error {
	if c.NewsAPIKey == "" {
		return apperrors.NewConfigMissingRequired("NEWS_API_KEY")
	}
	if len(c.Topics) == 0 {
		return apperrors.NewConfigMissingRequired("CRAWL_TOPICS")
	}
	return nil
}

// SeedURL returns the listing page for a topic
func (c *Config) SeedURL(topic string) string {
	return fmt.Sprintf(c.SeedTemplate, topic)
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var result float64
		if _, err := fmt.Sscanf(value, "%f", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping blanks
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
