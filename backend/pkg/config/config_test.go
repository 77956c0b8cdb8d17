package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "newsgraph/backend/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CRAWL_TOPICS", "")
	t.Setenv("CRAWL_WORKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, 5, cfg.CorpusMaxPages)
	assert.Equal(t, 10*time.Minute, cfg.JobTimeout)
	assert.Contains(t, cfg.Topics, "science")
	assert.Equal(t, "https://time.com/section/science/", cfg.SeedURL("science"))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CRAWL_TOPICS", "climate, tech ,,")
	t.Setenv("CRAWL_WORKERS", "3")
	t.Setenv("CRAWL_HOST_RPS", "0.5")
	t.Setenv("CRAWL_JOB_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"climate", "tech"}, cfg.Topics)
	assert.Equal(t, 3, cfg.Workers)
	assert.InDelta(t, 0.5, cfg.HostRPS, 1e-9)
	assert.Equal(t, 90*time.Second, cfg.JobTimeout)
}

func TestLoad_InvalidFetchMode(t *testing.T) {
	t.Setenv("CRAWL_FETCH_MODE", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
}

func TestValidateCrawl_RequiresNewsAPIKey(t *testing.T) {
	cfg := &Config{Topics: []string{"science"}}
	err := cfg.ValidateCrawl()
	require.Error(t, err)

	var missing *apperrors.ErrConfigMissingRequired
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "NEWS_API_KEY", missing.Field)
}
