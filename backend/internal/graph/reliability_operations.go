package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// ============================================================================
// Post-processing Operations
// ============================================================================

// ScanAnalyzed returns every article with both sentiment and subjectivity set
func (r *Repository) ScanAnalyzed(ctx context.Context) ([]AnalyzedArticle, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a:Article)
		WHERE a.sentiment IS NOT NULL AND a.subjectivity IS NOT NULL
		RETURN a.id AS id, a.sentiment AS sentiment, a.subjectivity AS subjectivity
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to scan articles: %w", err)
	}

	var out []AnalyzedArticle
	for result.Next(ctx) {
		record := result.Record()
		out = append(out, AnalyzedArticle{
			ID:           getStringFromRecord(record, "id"),
			Sentiment:    getFloat64FromRecord(record, "sentiment"),
			Subjectivity: getFloat64FromRecord(record, "subjectivity"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan articles: %w", err)
	}

	r.logger.Info("Scanned analyzed articles", zap.Int("count", len(out)))
	return out, nil
}

// SetReliability writes reliability scores in one transaction
func (r *Repository) SetReliability(ctx context.Context, updates []ReliabilityUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	rows := make([]map[string]any, 0, len(updates))
	for _, u := range updates {
		rows = append(rows, map[string]any{"id": u.ID, "score": u.Score})
	}

	query := `
		UNWIND $rows AS row
		MATCH (a:Article {id: row.id})
		SET a.reliability_score = row.score
		RETURN count(a) AS updated
	`

	updated, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"rows": rows})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		return getInt64FromRecord(record, "updated"), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to set reliability scores: %w", err)
	}

	return int(updated.(int64)), nil
}

// DeleteMalformedNodes removes articles that were never analyzed (sentiment
// and subjectivity both exactly zero) or are missing header or text.
func (r *Repository) DeleteMalformedNodes(ctx context.Context) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (a:Article)
		WHERE (a.sentiment = 0 AND a.subjectivity = 0)
		   OR a.header IS NULL OR a.header = ''
		   OR a.text IS NULL OR a.text = ''
		DETACH DELETE a
		RETURN count(*) AS deleted
	`

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		return getInt64FromRecord(record, "deleted"), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete malformed articles: %w", err)
	}

	n := int(deleted.(int64))
	r.logger.Info("Malformed articles deleted", zap.Int("deleted", n))
	return n, nil
}
