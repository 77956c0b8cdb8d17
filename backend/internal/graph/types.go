package graph

import "time"

// ============================================================================
// Article Graph Types
// ============================================================================

// Article is an article node. ReliabilityScore stays nil until the
// post-processor has run over it.
type Article struct {
	ID               string   `json:"id"`
	Header           string   `json:"header"`
	Author           string   `json:"author,omitempty"`
	DatePublished    string   `json:"date_published,omitempty"`
	Link             string   `json:"link"`
	Text             string   `json:"text"`
	Topics           []string `json:"topics,omitempty"`
	Sentiment        float64  `json:"sentiment"`
	Subjectivity     float64  `json:"subjectivity"`
	ReliabilityScore *float64 `json:"reliability_score,omitempty"`
}

// Reference is a scored REFERENCES edge between two articles
type Reference struct {
	FromID  string    `json:"from_id"`
	ToID    string    `json:"to_id"`
	Score   float64   `json:"score"`
	Created time.Time `json:"created"`
}

// AnalyzedArticle is the projection the reliability pass reads
type AnalyzedArticle struct {
	ID           string
	Sentiment    float64
	Subjectivity float64
}

// ReliabilityUpdate is one reliability score to write back
type ReliabilityUpdate struct {
	ID    string
	Score float64
}

// Counts summarizes graph size
type Counts struct {
	Articles   int64 `json:"articles"`
	References int64 `json:"references"`
}
