// Package crawler walks topic listing pages into article pages and turns
// them into scored article graphs.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"newsgraph/backend/internal/graph"
	apperrors "newsgraph/backend/pkg/errors"
	"newsgraph/backend/pkg/logger"
)

// Options bound a job
type Options struct {
	Workers      int
	MaxDepth     int
	MaxNodes     int
	HostRPS      float64
	JobTimeout   time.Duration
	DenyPatterns []string
	WriteRetries int
	RetryDelay   time.Duration
}

// DefaultOptions returns the production defaults
func DefaultOptions() Options {
	return Options{
		Workers:      8,
		MaxDepth:     2,
		MaxNodes:     500,
		HostRPS:      2,
		JobTimeout:   10 * time.Minute,
		WriteRetries: 3,
		RetryDelay:   500 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.MaxDepth < 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = d.MaxNodes
	}
	if o.JobTimeout <= 0 {
		o.JobTimeout = d.JobTimeout
	}
	if o.WriteRetries <= 0 {
		o.WriteRetries = d.WriteRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = d.RetryDelay
	}
	return o
}

// Controller runs crawl jobs. It is safe to run several jobs at once; each
// job owns its queue, visited set and worker pool.
type Controller struct {
	fetcher   Fetcher
	extractor Extractor
	analyzer  Analyzer
	store     Store
	opts      Options
	logger    *zap.Logger
}

// NewController wires a controller
func NewController(fetcher Fetcher, extractor Extractor, analyzer Analyzer, store Store, opts Options) *Controller {
	return &Controller{
		fetcher:   fetcher,
		extractor: extractor,
		analyzer:  analyzer,
		store:     store,
		opts:      opts.withDefaults(),
		logger:    logger.Named("crawler"),
	}
}

// known is a parsed article: its id and the text edges are scored against
type known struct {
	id   string
	text string
}

// outcome is what a worker reports for one task
type outcome struct {
	task    Task
	page    bool
	links   []string
	node    *known
	created bool

	edgeWritten bool
	failedEdge  *FailedEdge
	failedNode  *FailedNode

	fetchErr   error
	parseErr   error
	incomplete bool
}

// run is the per-job state shared by workers. Everything mutable lives in
// the coordinator.
type run struct {
	job     Job
	limiter *HostLimiter
	log     *zap.Logger
}

// Run crawls job until its queue drains, ctx is cancelled or the job
// timeout elapses. Cancellation stops dispatch and lets in-flight tasks
// finish; the partial graph is kept either way.
func (c *Controller) Run(ctx context.Context, job Job) (*Result, error) {
	if len(job.Seeds) == 0 {
		return nil, fmt.Errorf("job %q has no seeds", job.Topic)
	}
	if job.Model == nil {
		return nil, fmt.Errorf("job %q has no relevance model", job.Topic)
	}

	filter, err := NewLinkFilter(job.Seeds[0], c.opts.DenyPatterns, NewVisitedSet())
	if err != nil {
		return nil, err
	}

	// workCtx survives caller cancellation so in-flight work can drain,
	// but not the hard deadline.
	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.JobTimeout)
	defer cancel()

	r := &run{
		job:     job,
		limiter: NewHostLimiter(c.opts.HostRPS),
		log:     c.logger.With(zap.String("job_id", job.ID), zap.String("topic", job.Topic)),
	}
	result := &Result{JobID: job.ID, Topic: job.Topic, StartedAt: time.Now()}

	r.log.Info("Crawl started",
		zap.Strings("seeds", job.Seeds),
		zap.Int("workers", c.opts.Workers),
		zap.Int("max_depth", c.opts.MaxDepth),
		zap.Int("max_nodes", c.opts.MaxNodes),
	)

	tasks := make(chan Task)
	outcomes := make(chan outcome)
	var wg sync.WaitGroup
	for i := 0; i < c.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				outcomes <- c.process(workCtx, r, t)
			}
		}()
	}

	co := &coordinator{
		c:       c,
		r:       r,
		filter:  filter,
		result:  result,
		parsed:  make(map[string]known),
		pending: make(map[string][]known),
		failed:  make(map[string]bool),
	}
	for _, seed := range job.Seeds {
		canon, err := Canonicalize(seed)
		if err != nil {
			r.log.Warn("Invalid seed skipped", zap.String("url", seed), zap.Error(err))
			continue
		}
		filter.Visited().Add(canon)
		co.enqueue(Task{Kind: TaskListing, URL: canon}, StateSeed)
	}

	co.loop(ctx, workCtx, tasks, outcomes)

	close(tasks)
	wg.Wait()

	result.Cancelled = co.cancelled
	result.TimedOut = co.timedOut || (!co.cancelled && errors.Is(workCtx.Err(), context.DeadlineExceeded))
	result.Dropped += len(co.queue)
	result.Duration = time.Since(result.StartedAt)

	r.log.Info("Crawl finished",
		zap.Int("pages", result.PagesFetched),
		zap.Int("nodes_created", result.NodesCreated),
		zap.Int("nodes_existing", result.NodesExisting),
		zap.Int("edges", result.EdgesWritten),
		zap.Int("failed_edges", len(result.FailedEdges)),
		zap.Int("dropped", result.Dropped),
		zap.Int("visited", filter.Visited().Len()),
		zap.Bool("cancelled", result.Cancelled),
		zap.Bool("timed_out", result.TimedOut),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// coordinator owns the queue and every map describing job progress. Only
// the loop goroutine touches it.
type coordinator struct {
	c      *Controller
	r      *run
	filter *LinkFilter
	result *Result

	queue     []Task
	busy      int
	scheduled int // article tasks enqueued

	parsed  map[string]known   // canonical URL -> parsed article
	pending map[string][]known // canonical URL -> parents waiting for its text
	failed  map[string]bool    // canonical URL -> article task ended without a node

	cancelled bool
	timedOut  bool
}

func (co *coordinator) loop(ctx, workCtx context.Context, tasks chan<- Task, outcomes <-chan outcome) {
	stop := ctx.Done()
	deadline := workCtx.Done()
	stopping := false

	for len(co.queue) > 0 || co.busy > 0 {
		idx := co.next(stopping)
		if stopping && co.busy == 0 && idx < 0 {
			return
		}

		var send chan<- Task
		var next Task
		if idx >= 0 {
			send = tasks
			next = co.queue[idx]
		}

		select {
		case send <- next:
			co.queue = append(co.queue[:idx], co.queue[idx+1:]...)
			co.busy++
		case o := <-outcomes:
			co.busy--
			co.handle(o)
		case <-stop:
			co.r.log.Warn("Crawl cancelled, draining in-flight tasks", zap.Int("in_flight", co.busy), zap.Int("queued", len(co.queue)))
			stopping, co.cancelled = true, true
			stop = nil
		case <-deadline:
			co.r.log.Warn("Crawl deadline reached, draining in-flight tasks", zap.Int("in_flight", co.busy), zap.Int("queued", len(co.queue)))
			stopping, co.timedOut = true, true
			deadline = nil
		}
	}
}

// next picks the queue index to dispatch, or -1. While stopping only edge
// tasks go out: both endpoints are stored and no fetch is needed.
func (co *coordinator) next(stopping bool) int {
	if !stopping {
		if len(co.queue) > 0 {
			return 0
		}
		return -1
	}
	for i, t := range co.queue {
		if t.Kind == TaskEdge {
			return i
		}
	}
	return -1
}

func (co *coordinator) enqueue(t Task, state TaskState) {
	co.queue = append(co.queue, t)
	if t.Kind == TaskArticle {
		co.scheduled++
	}
	co.r.log.Debug("Task queued",
		zap.Stringer("kind", t.Kind),
		zap.Stringer("state", state),
		zap.String("url", t.URL),
		zap.Int("depth", t.Depth),
		zap.String("parent_id", t.ParentID),
	)
}

func (co *coordinator) handle(o outcome) {
	res := co.result
	if o.page {
		res.PagesFetched++
	}
	switch {
	case o.fetchErr != nil:
		res.FetchFailures++
	case o.parseErr != nil:
		res.ParseFailures++
	case o.incomplete:
		res.Incomplete++
	}
	if o.failedNode != nil {
		res.FailedNodes = append(res.FailedNodes, *o.failedNode)
	}
	if o.edgeWritten {
		res.EdgesWritten++
	}
	if o.failedEdge != nil {
		res.FailedEdges = append(res.FailedEdges, *o.failedEdge)
	}

	switch o.task.Kind {
	case TaskListing:
		co.fromListing(o)
	case TaskArticle:
		co.fromArticle(o)
	}
}

func (co *coordinator) fromListing(o outcome) {
	for _, link := range o.links {
		canon, ok := co.filter.Permitted(link, "")
		if !ok || co.filter.Visited().Contains(canon) {
			continue
		}
		if !co.admit(canon, "") {
			continue
		}
		co.enqueue(Task{Kind: TaskArticle, URL: canon, Depth: 0}, StateArticleFetchQueued)
	}
}

func (co *coordinator) fromArticle(o outcome) {
	t := o.task
	if o.node == nil {
		co.failed[t.URL] = true
		if waiting := co.pending[t.URL]; len(waiting) > 0 {
			co.r.log.Debug("Pending references dropped, article not persisted",
				zap.String("url", t.URL), zap.Int("parents", len(waiting)))
		}
		delete(co.pending, t.URL)
		return
	}

	if o.created {
		co.result.NodesCreated++
	} else {
		co.result.NodesExisting++
	}
	co.parsed[t.URL] = *o.node

	for _, parent := range co.pending[t.URL] {
		co.enqueueEdge(parent, *o.node, t.URL)
	}
	delete(co.pending, t.URL)

	seen := make(map[string]bool, len(o.links))
	recursed := 0
	for _, link := range o.links {
		canon, ok := co.filter.Permitted(link, t.URL)
		if !ok || seen[canon] {
			continue
		}
		seen[canon] = true

		if co.filter.Visited().Contains(canon) {
			co.linkKnown(*o.node, canon)
			continue
		}
		if t.Depth+1 > co.c.opts.MaxDepth {
			continue
		}
		if !co.admit(canon, t.URL) {
			continue
		}
		co.enqueue(Task{
			Kind:       TaskArticle,
			URL:        canon,
			ParentID:   o.node.id,
			ParentText: o.node.text,
			Depth:      t.Depth + 1,
		}, StateRecurse)
		recursed++
	}

	state := StateTerminal
	if recursed > 0 {
		state = StateRecurse
	}
	co.r.log.Debug("Article done",
		zap.Stringer("state", state),
		zap.String("url", t.URL),
		zap.String("article_id", o.node.id),
		zap.Int("depth", t.Depth),
		zap.Int("children", recursed),
	)
}

// admit marks canon visited if the node budget allows another article task
func (co *coordinator) admit(canon, from string) bool {
	if co.scheduled >= co.c.opts.MaxNodes {
		co.result.Dropped++
		return false
	}
	_, ok := co.filter.Accept(canon, from)
	return ok
}

// linkKnown handles a nested link to an article this job already queued:
// write the edge now if its text is known, otherwise wait for it.
func (co *coordinator) linkKnown(parent known, canon string) {
	if co.failed[canon] {
		return
	}
	if child, ok := co.parsed[canon]; ok {
		if child.id != parent.id {
			co.enqueueEdge(parent, child, canon)
		}
		return
	}
	co.pending[canon] = append(co.pending[canon], parent)
}

func (co *coordinator) enqueueEdge(parent, child known, canon string) {
	co.enqueue(Task{
		Kind:       TaskEdge,
		URL:        canon,
		ParentID:   parent.id,
		ParentText: parent.text,
		ChildID:    child.id,
		ChildText:  child.text,
	}, StateArticleParsed)
}

// process runs on a worker goroutine
func (c *Controller) process(ctx context.Context, r *run, t Task) outcome {
	switch t.Kind {
	case TaskListing:
		return c.processListing(ctx, r, t)
	case TaskArticle:
		return c.processArticle(ctx, r, t)
	default:
		o := outcome{task: t}
		c.writeEdge(ctx, r, &o, t.ParentID, t.ParentText, t.ChildID, t.ChildText)
		return o
	}
}

func (c *Controller) processListing(ctx context.Context, r *run, t Task) outcome {
	o := outcome{task: t}
	page, err := c.fetch(ctx, r, t.URL)
	if err != nil {
		r.log.Error("Listing fetch failed", zap.String("url", t.URL), zap.Int("status", statusOf(err)), zap.Error(err))
		o.fetchErr = err
		return o
	}
	o.page = true
	r.log.Debug("Listing fetched", zap.Stringer("state", StateListingFetched), zap.String("url", t.URL))

	links, err := c.extractor.ExtractListing(page.URL, page.HTML)
	if err != nil {
		r.log.Error("Listing parse failed", zap.String("url", t.URL), zap.Error(err))
		o.parseErr = err
		return o
	}
	if len(links) == 0 {
		r.log.Warn("No articles found on listing page", zap.String("url", t.URL))
	}
	r.log.Info("Listing parsed", zap.Stringer("state", StateListingParsed), zap.String("url", t.URL), zap.Int("links", len(links)))
	o.links = links
	return o
}

func (c *Controller) processArticle(ctx context.Context, r *run, t Task) outcome {
	o := outcome{task: t}
	page, err := c.fetch(ctx, r, t.URL)
	if err != nil {
		r.log.Error("Article fetch failed",
			zap.String("url", t.URL),
			zap.Int("status", statusOf(err)),
			zap.Int("depth", t.Depth),
			zap.Error(err),
		)
		o.fetchErr = err
		return o
	}
	o.page = true
	r.log.Debug("Article fetched", zap.Stringer("state", StateArticleFetched), zap.String("url", t.URL), zap.Int("depth", t.Depth))

	ext, err := c.extractor.ExtractArticle(page.URL, page.HTML)
	if err != nil {
		r.log.Error("Article parse failed", zap.String("url", t.URL), zap.Int("depth", t.Depth), zap.Error(err))
		o.parseErr = err
		return o
	}
	if ext.Header == "" || ext.Text == "" {
		r.log.Warn("Article missing header or text, not persisted",
			zap.String("url", t.URL),
			zap.Bool("has_header", ext.Header != ""),
			zap.Bool("has_text", ext.Text != ""),
		)
		o.incomplete = true
		return o
	}

	polarity, subjectivity, err := c.analyzer.Analyze(ctx, ext.Text)
	if err != nil {
		r.log.Error("Sentiment analysis failed", zap.String("url", t.URL), zap.Error(err))
		o.parseErr = err
		return o
	}

	id := NodeID(t.URL)
	article := graph.Article{
		ID:            id,
		Header:        ext.Header,
		Author:        ext.Author,
		DatePublished: ext.DatePublished,
		Link:          t.URL,
		Text:          ext.Text,
		Topics:        withTopic(ext.Topics, r.job.Topic),
		Sentiment:     polarity,
		Subjectivity:  subjectivity,
	}

	var existed bool
	err = c.withRetry(ctx, func() error {
		var werr error
		existed, werr = c.store.CreateOrGetNode(ctx, article)
		if werr != nil {
			return apperrors.NewGraphWriteFailed("create_node", werr, id)
		}
		return nil
	})
	if err != nil {
		r.log.Error("Article write failed", zap.String("article_id", id), zap.String("url", t.URL), zap.Error(err))
		o.failedNode = &FailedNode{ID: id, URL: t.URL, Error: err.Error()}
		return o
	}

	text := ext.Text
	if existed {
		// first scrape wins; score against what the graph holds
		stored, err := c.store.GetArticle(ctx, id)
		switch {
		case err != nil:
			r.log.Warn("Stored article unreadable, scoring with scraped text",
				zap.String("article_id", id),
				zap.String("url", t.URL),
				zap.Error(err),
			)
		case stored.Text != "":
			text = stored.Text
		}
	}
	o.node = &known{id: id, text: text}
	o.created = !existed
	o.links = ext.Links

	r.log.Debug("Article parsed",
		zap.Stringer("state", StateArticleParsed),
		zap.String("url", t.URL),
		zap.String("article_id", id),
		zap.Bool("existed", existed),
		zap.Int("links", len(ext.Links)),
	)

	if t.ParentID != "" && t.ParentID != id {
		c.writeEdge(ctx, r, &o, t.ParentID, t.ParentText, id, text)
	}
	return o
}

func (c *Controller) writeEdge(ctx context.Context, r *run, o *outcome, parentID, parentText, childID, childText string) {
	score := r.job.Model.Similarity(childText, parentText)
	err := c.withRetry(ctx, func() error {
		if werr := c.store.CreateEdge(ctx, parentID, childID, score); werr != nil {
			return apperrors.NewGraphWriteFailed("create_edge", werr, parentID, childID)
		}
		return nil
	})
	if err != nil {
		r.log.Error("Reference write failed",
			zap.String("parent_id", parentID),
			zap.String("child_id", childID),
			zap.Float64("score", score),
			zap.Error(err),
		)
		o.failedEdge = &FailedEdge{FromID: parentID, ToID: childID, Score: score, Error: err.Error()}
		return
	}
	o.edgeWritten = true
}

func (c *Controller) fetch(ctx context.Context, r *run, url string) (*Page, error) {
	if err := r.limiter.Wait(ctx, url); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, apperrors.NewFetchFailed(url, 0, apperrors.NewContextCancelled("rate limit wait", err))
		}
		return nil, apperrors.NewFetchFailed(url, 0, apperrors.NewContextTimeout("rate limit wait", c.opts.JobTimeout))
	}
	return c.fetcher.Fetch(ctx, url)
}

func (c *Controller) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < c.opts.WriteRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !apperrors.IsRetryable(err) || attempt == c.opts.WriteRetries-1 {
			break
		}
		timer := time.NewTimer(c.opts.RetryDelay << attempt)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}

func statusOf(err error) int {
	var fe *apperrors.ErrFetchFailed
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}

// withTopic appends the job topic to the extracted tags unless present
func withTopic(tags []string, topic string) []string {
	out := make([]string, 0, len(tags)+1)
	found := false
	for _, t := range tags {
		out = append(out, t)
		if strings.EqualFold(t, topic) {
			found = true
		}
	}
	if !found && topic != "" {
		out = append(out, topic)
	}
	return out
}
