package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"newsgraph/backend/internal/crawler"
	"newsgraph/backend/internal/relevance"
	"newsgraph/backend/pkg/logger"
)

// CorpusBuilder produces the training text for a topic
type CorpusBuilder interface {
	Build(ctx context.Context, topic string) (string, error)
}

// Crawler runs one crawl job
type Crawler interface {
	Run(ctx context.Context, job crawler.Job) (*crawler.Result, error)
}

// TopicOutcome is the result of crawling one topic
type TopicOutcome struct {
	JobID    string          `json:"job_id"`
	Topic    string          `json:"topic"`
	Model    relevance.Stats `json:"model"`
	Result   *crawler.Result `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
	Duration time.Duration   `json:"duration"`
}

// Failed reports whether the topic produced no crawl
func (o TopicOutcome) Failed() bool {
	return o.Error != ""
}

// RunSummary collects every topic of a run
type RunSummary struct {
	Topics []TopicOutcome `json:"topics"`
	Failed int            `json:"failed"`
}

// TopicRunner builds a topic's corpus and relevance model once, then crawls
// the topic with it
type TopicRunner struct {
	corpus      CorpusBuilder
	crawler     Crawler
	seedURL     func(topic string) string
	concurrency int
	modelOpts   []relevance.Option
	logger      *zap.Logger
}

// NewTopicRunner creates a runner. concurrency bounds RunAll.
func NewTopicRunner(corpus CorpusBuilder, c Crawler, seedURL func(string) string, concurrency int, modelOpts ...relevance.Option) *TopicRunner {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &TopicRunner{
		corpus:      corpus,
		crawler:     c,
		seedURL:     seedURL,
		concurrency: concurrency,
		modelOpts:   modelOpts,
		logger:      logger.Named("runner"),
	}
}

// RunTopic crawls one topic. A corpus or model failure ends the topic
// before any page is fetched.
func (r *TopicRunner) RunTopic(ctx context.Context, jobID, topic string) TopicOutcome {
	start := time.Now()
	out := TopicOutcome{JobID: jobID, Topic: topic}
	log := r.logger.With(zap.String("job_id", jobID), zap.String("topic", topic))

	fail := func(err error) TopicOutcome {
		log.Error("Topic failed", zap.Error(err))
		out.Error = err.Error()
		out.Duration = time.Since(start)
		return out
	}

	text, err := r.corpus.Build(ctx, topic)
	if err != nil {
		return fail(fmt.Errorf("build corpus: %w", err))
	}

	model, err := relevance.New(text, r.modelOpts...)
	if err != nil {
		return fail(fmt.Errorf("train relevance model: %w", err))
	}
	out.Model = model.Stats()
	log.Info("Relevance model trained",
		zap.Int("documents", out.Model.Documents),
		zap.Int("vocabulary", out.Model.Vocabulary),
	)

	res, err := r.crawler.Run(ctx, crawler.Job{
		ID:    jobID,
		Topic: topic,
		Seeds: []string{r.seedURL(topic)},
		Model: model,
	})
	if err != nil {
		return fail(fmt.Errorf("crawl: %w", err))
	}
	out.Result = res
	out.Duration = time.Since(start)
	return out
}

// RunAll crawls topics concurrently. One topic failing never stops the
// others; failures are reported in the summary.
func (r *TopicRunner) RunAll(ctx context.Context, jobID string, topics []string) RunSummary {
	outcomes := make([]TopicOutcome, len(topics))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, topic := range topics {
		i, topic := i, topic
		g.Go(func() error {
			outcomes[i] = r.RunTopic(gctx, fmt.Sprintf("%s-%s", jobID, topic), topic)
			return nil
		})
	}
	_ = g.Wait()

	sum := RunSummary{Topics: outcomes}
	for _, o := range outcomes {
		if o.Failed() {
			sum.Failed++
		}
	}
	r.logger.Info("Run complete", zap.Int("topics", len(topics)), zap.Int("failed", sum.Failed))
	return sum
}
