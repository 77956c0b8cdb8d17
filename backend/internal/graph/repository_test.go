package graph

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// TestRepository requires a running Neo4j instance
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables
func TestRepository_CreateOrGetNode(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	id := "test-article-" + time.Now().Format("20060102150405.000")
	defer cleanup(ctx, driver, id)

	first := Article{ID: id, Header: "First", Link: "https://time.com/1", Text: "first text", Topics: []string{"science"}, Sentiment: 0.2, Subjectivity: 0.5}
	existed, err := repo.CreateOrGetNode(ctx, first)
	if err != nil {
		t.Fatalf("CreateOrGetNode failed: %v", err)
	}
	if existed {
		t.Error("Expected new article to report existed=false")
	}

	second := first
	second.Header = "Second"
	existed, err = repo.CreateOrGetNode(ctx, second)
	if err != nil {
		t.Fatalf("CreateOrGetNode failed: %v", err)
	}
	if !existed {
		t.Error("Expected existing article to report existed=true")
	}

	got, err := repo.GetArticle(ctx, id)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.Header != "First" {
		t.Errorf("Expected header 'First', got '%s'", got.Header)
	}
}

func TestRepository_CreateEdge(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	suffix := time.Now().Format("20060102150405.000")
	from, to := "test-from-"+suffix, "test-to-"+suffix
	defer cleanup(ctx, driver, from, to)

	for _, id := range []string{from, to} {
		if _, err := repo.CreateOrGetNode(ctx, Article{ID: id, Header: id, Text: id, Sentiment: 0.1, Subjectivity: 0.1}); err != nil {
			t.Fatalf("CreateOrGetNode failed: %v", err)
		}
	}

	if err := repo.CreateEdge(ctx, from, to, 0.3); err != nil {
		t.Fatalf("CreateEdge failed: %v", err)
	}
	if err := repo.CreateEdge(ctx, from, to, 0.9); err != nil {
		t.Fatalf("CreateEdge failed: %v", err)
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)
	result, err := session.Run(ctx, `
		MATCH (:Article {id: $from})-[r:REFERENCES]->(:Article {id: $to})
		RETURN count(r) AS edges, max(r.score) AS score
	`, map[string]interface{}{"from": from, "to": to})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if n := getInt64FromRecord(record, "edges"); n != 1 {
		t.Errorf("Expected exactly one edge, got %d", n)
	}
	if score := getFloat64FromRecord(record, "score"); score != 0.9 {
		t.Errorf("Expected score 0.9, got %f", score)
	}
}

func TestRepository_GetArticle_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	_, err := repo.GetArticle(ctx, "non-existent-article")
	if err != ErrNodeNotFound {
		t.Errorf("Expected ErrNodeNotFound, got %v", err)
	}
}

func cleanup(ctx context.Context, driver neo4j.DriverWithContext, ids ...string) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx, "MATCH (a:Article) WHERE a.id IN $ids DETACH DELETE a", map[string]interface{}{"ids": ids})
}

func createTestDriver(t *testing.T) neo4j.DriverWithContext {
	t.Helper()

	uri := envOr("NEO4J_URI", "bolt://localhost:7687")
	user := envOr("NEO4J_USER", "neo4j")
	password := envOr("NEO4J_PASSWORD", "password")

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		t.Skipf("Neo4j driver unavailable: %v", err)
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(context.Background())
		t.Skipf("Neo4j not reachable at %s: %v", uri, err)
	}

	return driver
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
