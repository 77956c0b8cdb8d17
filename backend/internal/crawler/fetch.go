package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	apperrors "newsgraph/backend/pkg/errors"
	"newsgraph/backend/pkg/httputil"
	"newsgraph/backend/pkg/logger"
)

// maxPageBytes bounds how much of a response body is read
const maxPageBytes = 8 << 20

// Page is a fetched document
type Page struct {
	URL    string // final URL after redirects
	Status int
	HTML   string
}

// Fetcher retrieves a page. Non-200 responses are returned as
// *apperrors.ErrFetchFailed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// HTTPFetcher fetches static HTML with browser-like headers
type HTTPFetcher struct {
	client     *http.Client
	userAgent  string
	maxRetries int
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		client:     &http.Client{Timeout: timeout},
		userAgent:  "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		maxRetries: httputil.DefaultMaxRetries,
	}
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewFetchFailed(url, 0, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.maxRetries)
	if err != nil {
		return nil, apperrors.NewFetchFailed(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
		return nil, apperrors.NewFetchFailed(url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, apperrors.NewFetchFailed(url, resp.StatusCode, err)
	}

	return &Page{URL: resp.Request.URL.String(), Status: resp.StatusCode, HTML: string(body)}, nil
}

// BrowserFetcher renders pages in headless Chromium for sites that build
// their markup with JavaScript. One browser is shared; each fetch opens its
// own page.
type BrowserFetcher struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	timeout time.Duration
	logger  *zap.Logger
}

// NewBrowserFetcher starts playwright and launches Chromium
func NewBrowserFetcher(timeout time.Duration) (*BrowserFetcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserFetcher{
		pw:      pw,
		browser: browser,
		timeout: timeout,
		logger:  logger.Named("browser"),
	}, nil
}

// Fetch implements Fetcher
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewFetchFailed(url, 0, err)
	}

	f.mu.Lock()
	browser := f.browser
	f.mu.Unlock()
	if browser == nil {
		return nil, apperrors.NewFetchFailed(url, 0, fmt.Errorf("browser closed"))
	}

	page, err := browser.NewPage()
	if err != nil {
		return nil, apperrors.NewFetchFailed(url, 0, err)
	}
	defer page.Close()

	timeout := f.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, apperrors.NewFetchFailed(url, 0, err)
	}
	if resp == nil {
		return nil, apperrors.NewFetchFailed(url, 0, fmt.Errorf("no response"))
	}
	if resp.Status() != http.StatusOK {
		return nil, apperrors.NewFetchFailed(url, resp.Status(), nil)
	}

	html, err := page.Content()
	if err != nil {
		return nil, apperrors.NewFetchFailed(url, resp.Status(), err)
	}

	f.logger.Debug("Page rendered", zap.String("url", url), zap.Int("bytes", len(html)))
	return &Page{URL: page.URL(), Status: resp.Status(), HTML: html}, nil
}

// Close shuts down the browser and the playwright driver
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser == nil {
		return nil
	}
	if err := f.browser.Close(); err != nil {
		f.logger.Warn("Failed to close browser", zap.Error(err))
	}
	f.browser = nil
	return f.pw.Stop()
}
