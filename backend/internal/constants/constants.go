package constants

// Crawl defaults
const (
	// DefaultSeedTemplate is the listing page for a topic on the default site
	DefaultSeedTemplate = "https://time.com/section/%s/"

	// DefaultNewsAPIURL is the search endpoint corpora are built from
	DefaultNewsAPIURL = "https://newsapi.org/v2/everything"
)

// DefaultTopics are the sections crawled when CRAWL_TOPICS is unset
var DefaultTopics = []string{
	"politics",
	"business",
	"entertainment",
	"climate",
	"science",
	"sports",
	"world",
	"tech",
	"health",
}

// Job statuses reported by the ops server
const (
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
	JobStatusTimedOut  = "timed_out"
)
