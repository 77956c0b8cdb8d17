package graph

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process article graph with the same semantics as
// Repository. Used for dry runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	articles map[string]Article
	edges    map[[2]string]Reference
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory graph
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles: make(map[string]Article),
		edges:    make(map[[2]string]Reference),
		now:      time.Now,
	}
}

// CreateOrGetNode inserts article if its id is absent
func (m *MemoryStore) CreateOrGetNode(_ context.Context, article Article) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.articles[article.ID]; ok {
		return true, nil
	}
	article.Topics = append([]string(nil), article.Topics...)
	article.ReliabilityScore = nil
	m.articles[article.ID] = article
	return false, nil
}

// GetArticle returns a copy of the stored article
func (m *MemoryStore) GetArticle(_ context.Context, id string) (*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.articles[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	a.Topics = append([]string(nil), a.Topics...)
	return &a, nil
}

// CreateEdge upserts the edge for the ordered pair
func (m *MemoryStore) CreateEdge(_ context.Context, fromID, toID string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.articles[fromID]; !ok {
		return ErrNodeNotFound
	}
	if _, ok := m.articles[toID]; !ok {
		return ErrNodeNotFound
	}

	key := [2]string{fromID, toID}
	ref, ok := m.edges[key]
	if !ok {
		ref = Reference{FromID: fromID, ToID: toID, Created: m.now()}
	}
	ref.Score = score
	m.edges[key] = ref
	return nil
}

// Counts returns the number of articles and references
func (m *MemoryStore) Counts(_ context.Context) (Counts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Counts{Articles: int64(len(m.articles)), References: int64(len(m.edges))}, nil
}

// ScanAnalyzed returns all articles ordered by id
func (m *MemoryStore) ScanAnalyzed(_ context.Context) ([]AnalyzedArticle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]AnalyzedArticle, 0, len(m.articles))
	for _, a := range m.articles {
		out = append(out, AnalyzedArticle{ID: a.ID, Sentiment: a.Sentiment, Subjectivity: a.Subjectivity})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SetReliability writes scores onto existing articles
func (m *MemoryStore) SetReliability(_ context.Context, updates []ReliabilityUpdate) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, u := range updates {
		a, ok := m.articles[u.ID]
		if !ok {
			continue
		}
		score := u.Score
		a.ReliabilityScore = &score
		m.articles[u.ID] = a
		n++
	}
	return n, nil
}

// DeleteMalformedNodes removes unanalyzed or incomplete articles and their edges
func (m *MemoryStore) DeleteMalformedNodes(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, a := range m.articles {
		if !malformed(a) {
			continue
		}
		delete(m.articles, id)
		n++
		for key := range m.edges {
			if key[0] == id || key[1] == id {
				delete(m.edges, key)
			}
		}
	}
	return n, nil
}

// Articles returns a snapshot of all articles ordered by id
func (m *MemoryStore) Articles() []Article {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Article, 0, len(m.articles))
	for _, a := range m.articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// References returns a snapshot of all edges ordered by endpoints
func (m *MemoryStore) References() []Reference {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Reference, 0, len(m.edges))
	for _, r := range m.edges {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FromID != out[j].FromID {
			return out[i].FromID < out[j].FromID
		}
		return out[i].ToID < out[j].ToID
	})
	return out
}

func malformed(a Article) bool {
	if a.Sentiment == 0 && a.Subjectivity == 0 {
		return true
	}
	return a.Header == "" || a.Text == ""
}
