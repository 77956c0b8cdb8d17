package reliability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsgraph/backend/internal/graph"
)

func TestScore(t *testing.T) {
	tests := []struct {
		sentiment, subjectivity, want float64
	}{
		{0, 0, 100},
		{1, 1, 0},
		{-1, 0, 0},
		{0, 1, 0},
		{0.5, 0.5, 25},
		{-0.2, 0.1, 72},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_%v", tt.sentiment, tt.subjectivity), func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.sentiment, tt.subjectivity), 1e-9)
		})
	}
}

func TestScore_Clamped(t *testing.T) {
	assert.Equal(t, 100.0, Score(0, -0.5))
	assert.Equal(t, 0.0, Score(2, 0))
}

func seed(t *testing.T, store *graph.MemoryStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := store.CreateOrGetNode(context.Background(), graph.Article{
			ID:           fmt.Sprintf("a%02d", i),
			Header:       "h",
			Text:         "t",
			Sentiment:    0.1 * float64(i%5),
			Subjectivity: 0.2,
		})
		require.NoError(t, err)
	}
}

func TestProcessor_Run(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	seed(t, store, 7) // a00 has sentiment 0 but subjectivity 0.2, so it stays

	_, _ = store.CreateOrGetNode(ctx, graph.Article{ID: "zero", Header: "h", Text: "t"})
	_, _ = store.CreateOrGetNode(ctx, graph.Article{ID: "noheader", Text: "t", Sentiment: 0.3, Subjectivity: 0.3})

	sum, err := NewProcessor(store, 3).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Deleted)
	assert.Equal(t, 7, sum.Scored)
	assert.Equal(t, 7, sum.Written)

	for _, a := range store.Articles() {
		require.NotNil(t, a.ReliabilityScore, a.ID)
		assert.InDelta(t, Score(a.Sentiment, a.Subjectivity), *a.ReliabilityScore, 1e-9)
	}
}

func TestProcessor_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	seed(t, store, 4)

	p := NewProcessor(store, 0)
	_, err := p.Run(ctx)
	require.NoError(t, err)
	first := store.Articles()

	sum, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Deleted)
	assert.Equal(t, first, store.Articles())
}

// countingStore records batch sizes and can fail a write
type countingStore struct {
	*graph.MemoryStore
	batches []int
	failAt  int
}

func (s *countingStore) SetReliability(ctx context.Context, updates []graph.ReliabilityUpdate) (int, error) {
	s.batches = append(s.batches, len(updates))
	if s.failAt > 0 && len(s.batches) == s.failAt {
		return 0, errors.New("write timeout")
	}
	return s.MemoryStore.SetReliability(ctx, updates)
}

func TestProcessor_Batches(t *testing.T) {
	store := &countingStore{MemoryStore: graph.NewMemoryStore()}
	seed(t, store.MemoryStore, 7)

	_, err := NewProcessor(store, 3).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 1}, store.batches)
}

func TestProcessor_WriteFailure(t *testing.T) {
	store := &countingStore{MemoryStore: graph.NewMemoryStore(), failAt: 2}
	seed(t, store.MemoryStore, 7)

	sum, err := NewProcessor(store, 3).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, sum.Written)
}
