package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"newsgraph/backend/pkg/logger"
)

// ErrNodeNotFound is returned when an edge endpoint or a looked-up article is absent
var ErrNodeNotFound = errors.New("graph: article not found")

// Repository handles all Neo4j database operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Named("graph"),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// EnsureSchema creates the uniqueness constraint MERGE relies on for atomic node creation
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `CREATE CONSTRAINT article_id_unique IF NOT EXISTS FOR (a:Article) REQUIRE a.id IS UNIQUE`
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return fmt.Errorf("failed to create article constraint: %w", err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return fmt.Errorf("failed to create article constraint: %w", err)
	}
	return nil
}

// CreateOrGetNode creates the article with its full field set if absent.
// An existing article is never modified; existed reports which case applied.
// Existence check and insert are one MERGE statement.
func (r *Repository) CreateOrGetNode(ctx context.Context, article Article) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (a:Article {id: $id})
		ON CREATE SET a.header = $header,
		              a.author = $author,
		              a.date_published = $date_published,
		              a.link = $link,
		              a.text = $text,
		              a.topics = $topics,
		              a.sentiment = $sentiment,
		              a.subjectivity = $subjectivity,
		              a.created_at = datetime(),
		              a._created = true
		WITH a, coalesce(a._created, false) AS created
		REMOVE a._created
		RETURN created
	`

	topics := article.Topics
	if topics == nil {
		topics = []string{}
	}

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{
			"id":             article.ID,
			"header":         article.Header,
			"author":         article.Author,
			"date_published": article.DatePublished,
			"link":           article.Link,
			"text":           article.Text,
			"topics":         topics,
			"sentiment":      article.Sentiment,
			"subjectivity":   article.Subjectivity,
		})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		return getBoolFromRecord(record, "created"), nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to merge article %s: %w", article.ID, err)
	}

	existed := !created.(bool)
	if !existed {
		r.logger.Debug("Article created", zap.String("article_id", article.ID), zap.String("link", article.Link))
	}
	return existed, nil
}

// GetArticle fetches one article by id
func (r *Repository) GetArticle(ctx context.Context, id string) (*Article, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a:Article {id: $id})
		RETURN a.id AS id, a.header AS header, a.author AS author,
		       a.date_published AS date_published, a.link AS link, a.text AS text,
		       a.topics AS topics, a.sentiment AS sentiment, a.subjectivity AS subjectivity,
		       a.reliability_score AS reliability_score
	`

	result, err := session.Run(ctx, query, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return nil, ErrNodeNotFound
	}

	return articleFromRecord(result.Record()), nil
}

// CreateEdge upserts the single REFERENCES edge for the ordered pair and
// overwrites its score.
func (r *Repository) CreateEdge(ctx context.Context, fromID, toID string, score float64) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (a:Article {id: $fromID})
		MATCH (b:Article {id: $toID})
		MERGE (a)-[r:REFERENCES]->(b)
		ON CREATE SET r.created = datetime()
		SET r.score = $score
		RETURN count(r) AS edges
	`

	edges, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{
			"fromID": fromID,
			"toID":   toID,
			"score":  score,
		})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		return getInt64FromRecord(record, "edges"), nil
	})
	if err != nil {
		return fmt.Errorf("failed to merge reference %s->%s: %w", fromID, toID, err)
	}
	if edges.(int64) == 0 {
		return fmt.Errorf("reference %s->%s: %w", fromID, toID, ErrNodeNotFound)
	}

	r.logger.Debug("Reference written",
		zap.String("from_id", fromID),
		zap.String("to_id", toID),
		zap.Float64("score", score),
	)
	return nil
}

// Counts returns the number of articles and references
func (r *Repository) Counts(ctx context.Context) (Counts, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		CALL { MATCH (a:Article) RETURN count(a) AS articles }
		CALL { MATCH (:Article)-[r:REFERENCES]->(:Article) RETURN count(r) AS references }
		RETURN articles, references
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count graph: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count graph: %w", err)
	}

	return Counts{
		Articles:   getInt64FromRecord(record, "articles"),
		References: getInt64FromRecord(record, "references"),
	}, nil
}

// DeleteAll removes every article and reference. Used by the dev seed script.
func (r *Repository) DeleteAll(ctx context.Context) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (a:Article) DETACH DELETE a RETURN count(a) AS deleted`, nil)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return int(getInt64FromRecord(record, "deleted")), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete articles: %w", err)
	}
	return result.(int), nil
}
