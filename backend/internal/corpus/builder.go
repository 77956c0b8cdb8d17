// Package corpus builds the per-topic reference text a relevance model is
// trained on.
package corpus

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "newsgraph/backend/pkg/errors"
	"newsgraph/backend/pkg/logger"
)

// DefaultMaxPages bounds how many search pages feed one corpus
const DefaultMaxPages = 5

// Builder assembles a topic corpus from a Searcher
type Builder struct {
	searcher Searcher
	cache    Cache
	maxPages int
	logger   *zap.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithCache consults and fills cache around the search calls
func WithCache(cache Cache) Option {
	return func(b *Builder) { b.cache = cache }
}

// WithMaxPages overrides DefaultMaxPages
func WithMaxPages(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxPages = n
		}
	}
}

// NewBuilder creates a builder
func NewBuilder(searcher Searcher, opts ...Option) *Builder {
	b := &Builder{
		searcher: searcher,
		maxPages: DefaultMaxPages,
		logger:   logger.Named("corpus"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the cleaned corpus for topic. Pages are requested from 1
// until an empty page or maxPages. Any search failure aborts the corpus,
// except the API signalling that no further pages exist after at least one
// page was read. An empty result is an error.
func (b *Builder) Build(ctx context.Context, topic string) (string, error) {
	log := b.logger.With(zap.String("topic", topic))

	if b.cache != nil {
		cached, ok, err := b.cache.Get(ctx, topic)
		switch {
		case err != nil:
			log.Warn("Corpus cache read failed", zap.Error(err))
		case ok && cached != "":
			log.Info("Corpus loaded from cache", zap.Int("chars", len(cached)))
			return cached, nil
		}
	}

	var parts []string
	docs := 0
	for page := 1; page <= b.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return "", apperrors.NewCorpusBuildFailed(topic, page, err)
		}

		results, err := b.searcher.Search(ctx, topic, page)
		if err != nil {
			var apiErr *APIError
			if page > 1 && errors.As(err, &apiErr) && apiErr.Exhausted() {
				log.Info("Search results exhausted", zap.Int("page", page))
				break
			}
			log.Error("Corpus search failed", zap.Int("page", page), zap.Error(err))
			return "", apperrors.NewCorpusBuildFailed(topic, page, err)
		}
		if len(results) == 0 {
			break
		}

		for _, doc := range results {
			if doc.Content == "" {
				continue
			}
			if cleaned := CleanText(doc.Content); cleaned != "" {
				parts = append(parts, cleaned)
				docs++
			}
		}
		log.Debug("Corpus page read", zap.Int("page", page), zap.Int("results", len(results)))
	}

	corpus := strings.Join(parts, " ")
	if corpus == "" {
		return "", apperrors.NewCorpusEmpty(topic)
	}

	log.Info("Corpus built", zap.Int("documents", docs), zap.Int("chars", len(corpus)))

	if b.cache != nil {
		if err := b.cache.Set(ctx, topic, corpus); err != nil {
			log.Warn("Corpus cache write failed", zap.Error(err))
		}
	}
	return corpus, nil
}
