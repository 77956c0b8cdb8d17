package crawler

import (
	"context"
	"time"

	"newsgraph/backend/internal/graph"
)

// TaskKind says what a worker does with a task
type TaskKind int

const (
	// TaskListing fetches a listing page and yields article links
	TaskListing TaskKind = iota
	// TaskArticle fetches, extracts, analyzes and persists one article
	TaskArticle
	// TaskEdge scores and writes a reference to an already-parsed article
	TaskEdge
)

func (k TaskKind) String() string {
	switch k {
	case TaskListing:
		return "listing"
	case TaskArticle:
		return "article"
	case TaskEdge:
		return "edge"
	}
	return "unknown"
}

// TaskState is the lifecycle position of a task, logged on transitions
type TaskState int

const (
	StateSeed TaskState = iota
	StateListingFetched
	StateListingParsed
	StateArticleFetchQueued
	StateArticleFetched
	StateArticleParsed
	StateRecurse
	StateTerminal
)

func (s TaskState) String() string {
	switch s {
	case StateSeed:
		return "SEED"
	case StateListingFetched:
		return "LISTING_FETCHED"
	case StateListingParsed:
		return "LISTING_PARSED"
	case StateArticleFetchQueued:
		return "ARTICLE_FETCH_QUEUED"
	case StateArticleFetched:
		return "ARTICLE_FETCHED"
	case StateArticleParsed:
		return "ARTICLE_PARSED"
	case StateRecurse:
		return "RECURSE"
	case StateTerminal:
		return "TERMINAL"
	}
	return "UNKNOWN"
}

// Task is one unit of work. Parent data travels with the task so edge
// scoring never needs a graph read.
type Task struct {
	Kind       TaskKind
	URL        string // canonical for article tasks
	ParentID   string
	ParentText string
	Depth      int

	// edge tasks only
	ChildID   string
	ChildText string
}

// Scorer rates how related two texts are, in [0, 1]
type Scorer interface {
	Similarity(text1, text2 string) float64
}

// Analyzer returns (polarity in [-1,1], subjectivity in [0,1]) for a text
type Analyzer interface {
	Analyze(ctx context.Context, text string) (float64, float64, error)
}

// Store is the graph the crawler writes to
type Store interface {
	CreateOrGetNode(ctx context.Context, article graph.Article) (bool, error)
	GetArticle(ctx context.Context, id string) (*graph.Article, error)
	CreateEdge(ctx context.Context, fromID, toID string, score float64) error
}

// Job is one topic crawl
type Job struct {
	ID    string
	Topic string
	Seeds []string
	Model Scorer
}

// FailedEdge is a reference that could not be written, kept for replay
type FailedEdge struct {
	FromID string  `json:"from_id"`
	ToID   string  `json:"to_id"`
	Score  float64 `json:"score"`
	Error  string  `json:"error"`
}

// FailedNode is an article that was parsed but could not be persisted
type FailedNode struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

// Result summarizes a finished job. Partial results from cancelled or
// timed-out jobs are valid.
type Result struct {
	JobID         string        `json:"job_id"`
	Topic         string        `json:"topic"`
	PagesFetched  int           `json:"pages_fetched"`
	NodesCreated  int           `json:"nodes_created"`
	NodesExisting int           `json:"nodes_existing"`
	EdgesWritten  int           `json:"edges_written"`
	FetchFailures int           `json:"fetch_failures"`
	ParseFailures int           `json:"parse_failures"`
	Incomplete    int           `json:"incomplete"`
	Dropped       int           `json:"dropped"`
	FailedEdges   []FailedEdge  `json:"failed_edges,omitempty"`
	FailedNodes   []FailedNode  `json:"failed_nodes,omitempty"`
	Cancelled     bool          `json:"cancelled"`
	TimedOut      bool          `json:"timed_out"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
}
