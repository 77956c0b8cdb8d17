// Package reliability derives a 0-100 reliability score for stored articles
// from their sentiment and subjectivity.
package reliability

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"newsgraph/backend/internal/graph"
	"newsgraph/backend/pkg/logger"
)

// DefaultBatchSize is the number of scores written per transaction
const DefaultBatchSize = 500

// Score rates how neutral and factual an article reads: 100 for neutral,
// objective text, 0 for strongly polar, fully subjective text.
func Score(sentiment, subjectivity float64) float64 {
	v := (1 - subjectivity) * (1 - math.Abs(sentiment)) * 100
	return math.Max(0, math.Min(100, v))
}

// Store is the part of the graph the processor needs
type Store interface {
	DeleteMalformedNodes(ctx context.Context) (int, error)
	ScanAnalyzed(ctx context.Context) ([]graph.AnalyzedArticle, error)
	SetReliability(ctx context.Context, updates []graph.ReliabilityUpdate) (int, error)
}

// Summary reports one pass
type Summary struct {
	Deleted  int           `json:"deleted"`
	Scored   int           `json:"scored"`
	Written  int           `json:"written"`
	Duration time.Duration `json:"duration"`
}

// Processor runs the cleanup and scoring pass
type Processor struct {
	store     Store
	batchSize int
	logger    *zap.Logger
}

// NewProcessor creates a processor. batchSize <= 0 uses DefaultBatchSize.
func NewProcessor(store Store, batchSize int) *Processor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Processor{
		store:     store,
		batchSize: batchSize,
		logger:    logger.Named("reliability"),
	}
}

// Run deletes malformed articles, then scores every remaining article that
// has sentiment and subjectivity. Running it twice yields the same graph.
func (p *Processor) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var sum Summary

	deleted, err := p.store.DeleteMalformedNodes(ctx)
	if err != nil {
		return sum, fmt.Errorf("cleanup: %w", err)
	}
	sum.Deleted = deleted

	articles, err := p.store.ScanAnalyzed(ctx)
	if err != nil {
		return sum, fmt.Errorf("scan: %w", err)
	}

	batch := make([]graph.ReliabilityUpdate, 0, p.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := p.store.SetReliability(ctx, batch)
		if err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
		sum.Written += n
		batch = batch[:0]
		return nil
	}

	for _, a := range articles {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		batch = append(batch, graph.ReliabilityUpdate{ID: a.ID, Score: Score(a.Sentiment, a.Subjectivity)})
		sum.Scored++
		if len(batch) == p.batchSize {
			if err := flush(); err != nil {
				return sum, err
			}
		}
	}
	if err := flush(); err != nil {
		return sum, err
	}

	sum.Duration = time.Since(start)
	p.logger.Info("Reliability pass complete",
		zap.Int("deleted", sum.Deleted),
		zap.Int("scored", sum.Scored),
		zap.Int("written", sum.Written),
		zap.Duration("duration", sum.Duration),
	)
	return sum, nil
}
