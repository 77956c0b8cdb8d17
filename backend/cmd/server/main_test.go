package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"newsgraph/backend/internal/constants"
	"newsgraph/backend/internal/reliability"
	"newsgraph/backend/internal/services"
)

type stubJobs struct {
	started []string
	jobs    map[string]services.JobInfo
	busy    bool
}

func (s *stubJobs) Start(topic string) (string, error) {
	if s.busy {
		return "", services.ErrTopicBusy{Topic: topic, JobID: "running-id"}
	}
	s.started = append(s.started, topic)
	return "new-id", nil
}

func (s *stubJobs) Get(id string) (services.JobInfo, bool) {
	info, ok := s.jobs[id]
	return info, ok
}

func (s *stubJobs) List() []services.JobInfo {
	out := make([]services.JobInfo, 0, len(s.jobs))
	for _, info := range s.jobs {
		out = append(out, info)
	}
	return out
}

func (s *stubJobs) Cancel(id string) bool {
	_, ok := s.jobs[id]
	return ok
}

type stubProcessor struct {
	summary reliability.Summary
	err     error
}

func (s stubProcessor) Run(context.Context) (reliability.Summary, error) {
	return s.summary, s.err
}

func testRouter(jobs *stubJobs, proc stubProcessor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return newRouter(zap.NewNop(), jobs, proc)
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := do(testRouter(&stubJobs{}, stubProcessor{}), "GET", "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
}

func TestStartCrawl(t *testing.T) {
	jobs := &stubJobs{}
	w := do(testRouter(jobs, stubProcessor{}), "POST", "/api/crawls", `{"topic":"science"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"job_id":"new-id"}`, w.Body.String())
	assert.Equal(t, []string{"science"}, jobs.started)
}

func TestStartCrawl_InvalidRequest(t *testing.T) {
	jobs := &stubJobs{}
	w := do(testRouter(jobs, stubProcessor{}), "POST", "/api/crawls", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, jobs.started)
}

func TestStartCrawl_TopicBusy(t *testing.T) {
	w := do(testRouter(&stubJobs{busy: true}, stubProcessor{}), "POST", "/api/crawls", `{"topic":"science"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "running-id")
}

func TestGetCrawl(t *testing.T) {
	jobs := &stubJobs{jobs: map[string]services.JobInfo{
		"abc": {ID: "abc", Topic: "science", Status: constants.JobStatusRunning},
	}}
	router := testRouter(jobs, stubProcessor{})

	w := do(router, "GET", "/api/crawls/abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info services.JobInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "science", info.Topic)
	assert.Equal(t, constants.JobStatusRunning, info.Status)

	w = do(router, "GET", "/api/crawls/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, "GET", "/api/crawls", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCancelCrawl(t *testing.T) {
	jobs := &stubJobs{jobs: map[string]services.JobInfo{"abc": {ID: "abc"}}}
	router := testRouter(jobs, stubProcessor{})

	assert.Equal(t, http.StatusAccepted, do(router, "DELETE", "/api/crawls/abc", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, "DELETE", "/api/crawls/zzz", "").Code)
}

func TestReliabilityEndpoint(t *testing.T) {
	w := do(testRouter(&stubJobs{}, stubProcessor{summary: reliability.Summary{Deleted: 1, Scored: 4, Written: 4}}), "POST", "/api/reliability", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["deleted"])
	assert.Equal(t, float64(4), response["written"])

	w = do(testRouter(&stubJobs{}, stubProcessor{err: errors.New("neo4j down")}), "POST", "/api/reliability", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	w := do(testRouter(&stubJobs{}, stubProcessor{}), "OPTIONS", "/api/crawls", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
