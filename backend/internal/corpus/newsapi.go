package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"newsgraph/backend/internal/constants"
	"newsgraph/backend/pkg/httputil"
)

// codeMaxResults is returned when paging past the plan's result cap
const codeMaxResults = "maximumResultsReached"

// Document is one search hit
type Document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Searcher fetches one page of topic documents. An empty page means the
// result set is exhausted.
type Searcher interface {
	Search(ctx context.Context, query string, page int) ([]Document, error)
}

// APIError is a NewsAPI error body or non-200 status
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("newsapi: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("newsapi: HTTP %d", e.StatusCode)
}

// Exhausted reports whether the error only means no further pages exist
func (e *APIError) Exhausted() bool {
	return e.Code == codeMaxResults
}

type newsAPIResponse struct {
	Status       string     `json:"status"`
	Code         string     `json:"code"`
	Message      string     `json:"message"`
	TotalResults int        `json:"totalResults"`
	Articles     []Document `json:"articles"`
}

// NewsAPIClient searches article titles on NewsAPI
type NewsAPIClient struct {
	Client     *http.Client
	BaseURL    string
	APIKey     string
	PageSize   int
	MaxRetries int
}

// NewNewsAPIClient creates a client. An empty baseURL uses the public endpoint.
func NewNewsAPIClient(baseURL, apiKey string, pageSize int) *NewsAPIClient {
	if baseURL == "" {
		baseURL = constants.DefaultNewsAPIURL
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return &NewsAPIClient{
		Client:   &http.Client{Timeout: 30 * time.Second},
		BaseURL:  baseURL,
		APIKey:   apiKey,
		PageSize: pageSize,
	}
}

// Search implements Searcher
func (c *NewsAPIClient) Search(ctx context.Context, query string, page int) ([]Document, error) {
	params := url.Values{
		"q":        {query},
		"searchIn": {"title"},
		"sortBy":   {"relevancy"},
		"language": {"en"},
		"pageSize": {strconv.Itoa(c.PageSize)},
		"page":     {strconv.Itoa(page)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("reading newsapi response: %w", err)
	}

	var out newsAPIResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK || out.Status == "error" {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code, apiErr.Message = out.Code, out.Message
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("parsing newsapi response: %w", decodeErr)
	}
	return out.Articles, nil
}
