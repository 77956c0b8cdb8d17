package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsErrorType_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("topic science: %w", NewCorpusBuildFailed("science", 2, fmt.Errorf("boom")))

	assert.True(t, IsErrorType(err, ErrorTypeCorpus))
	assert.False(t, IsErrorType(err, ErrorTypeGraph))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited fetch", NewFetchFailed("https://time.com/a", 429, nil), true},
		{"server error fetch", NewFetchFailed("https://time.com/a", 503, nil), true},
		{"not found fetch", NewFetchFailed("https://time.com/a", 404, nil), false},
		{"transport fetch", NewFetchFailed("https://time.com/a", 0, fmt.Errorf("reset")), true},
		{"graph write", NewGraphWriteFailed("create_edge", fmt.Errorf("deadlock"), "a", "b"), true},
		{"cancelled", NewGraphWriteFailed("create_edge", context.Canceled, "a", "b"), false},
		{"corpus", NewCorpusEmpty("science"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
