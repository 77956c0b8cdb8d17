package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"newsgraph/backend/internal/constants"
	"newsgraph/backend/pkg/logger"
)

// TopicJobRunner runs a single topic crawl
type TopicJobRunner interface {
	RunTopic(ctx context.Context, jobID, topic string) TopicOutcome
}

// JobInfo is the externally visible state of a background crawl
type JobInfo struct {
	ID         string        `json:"id"`
	Topic      string        `json:"topic"`
	Status     string        `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Outcome    *TopicOutcome `json:"outcome,omitempty"`
}

// JobManager runs crawls in the background for the ops server
type JobManager struct {
	logger  *zap.Logger
	runner  TopicJobRunner
	jobs    map[string]*JobInfo
	active  map[string]string // topic -> running job id
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// NewJobManager creates a job manager
func NewJobManager(runner TopicJobRunner) *JobManager {
	return &JobManager{
		logger:  logger.Named("jobs"),
		runner:  runner,
		jobs:    make(map[string]*JobInfo),
		active:  make(map[string]string),
		cancels: make(map[string]context.CancelFunc),
	}
}

// ErrTopicBusy is returned when a topic already has a running crawl
type ErrTopicBusy struct {
	Topic string
	JobID string
}

func (e ErrTopicBusy) Error() string {
	return fmt.Sprintf("topic %q already has running job %s", e.Topic, e.JobID)
}

// Start launches a crawl for topic and returns its job id
func (m *JobManager) Start(topic string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.active[topic]; ok {
		return "", ErrTopicBusy{Topic: topic, JobID: id}
	}

	id := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	info := &JobInfo{ID: id, Topic: topic, Status: constants.JobStatusRunning, StartedAt: time.Now()}
	m.jobs[id] = info
	m.active[topic] = id
	m.cancels[id] = cancel
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		defer cancel()

		outcome := m.runner.RunTopic(ctx, id, topic)

		m.mu.Lock()
		defer m.mu.Unlock()
		now := time.Now()
		info.FinishedAt = &now
		info.Outcome = &outcome
		switch {
		case outcome.Failed():
			info.Status = constants.JobStatusFailed
		case outcome.Result != nil && outcome.Result.Cancelled:
			info.Status = constants.JobStatusCancelled
		case outcome.Result != nil && outcome.Result.TimedOut:
			info.Status = constants.JobStatusTimedOut
		default:
			info.Status = constants.JobStatusCompleted
		}
		delete(m.active, topic)
		delete(m.cancels, id)

		m.logger.Info("Crawl job finished",
			zap.String("job_id", id),
			zap.String("topic", topic),
			zap.String("status", info.Status),
		)
	}()

	m.logger.Info("Crawl job started", zap.String("job_id", id), zap.String("topic", topic))
	return id, nil
}

// Get returns a snapshot of a job
func (m *JobManager) Get(id string) (JobInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.jobs[id]
	if !ok {
		return JobInfo{}, false
	}
	return *info, true
}

// List returns all jobs, newest first
func (m *JobManager) List() []JobInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]JobInfo, 0, len(m.jobs))
	for _, info := range m.jobs {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// Cancel stops dispatch for a running job. In-flight pages still finish.
func (m *JobManager) Cancel(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	cancel, ok := m.cancels[id]
	if ok {
		cancel()
	}
	return ok
}

// IsRunning reports whether topic has an active job
func (m *JobManager) IsRunning(topic string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[topic]
	return ok
}

// StopAll cancels every running job and waits up to timeout for them to
// drain
func (m *JobManager) StopAll(timeout time.Duration) {
	m.mu.Lock()
	for _, cancel := range m.cancels {
		cancel()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All crawl jobs stopped")
	case <-time.After(timeout):
		m.logger.Warn("Crawl jobs did not drain before shutdown timeout")
	}
}
