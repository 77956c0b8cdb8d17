// Package relevance scores how related two article texts are under a
// TF-IDF weighting trained on one topic's corpus. Terms common across the
// topic corpus weigh less, so scores discriminate between articles on the
// same general subject.
package relevance

import (
	"errors"
	"math"
)

// ErrEmptyVocabulary is returned when the corpus yields no usable terms
var ErrEmptyVocabulary = errors.New("relevance: corpus produced an empty vocabulary")

// Model is a frozen dictionary plus IDF weights. It is immutable after New
// and safe for concurrent use.
type Model struct {
	vocab map[string]int
	idf   []float64
	docs  int
}

// Stats describes a trained model
type Stats struct {
	Documents  int
	Vocabulary int
}

type options struct {
	splitter Splitter
}

// Option configures model training
type Option func(*options)

// WithSimpleSplit uses the punctuation-based sentence splitter
func WithSimpleSplit() Option {
	return func(o *options) { o.splitter = SimpleSplit }
}

// New trains a model over the sentence units of corpus
func New(corpus string, opts ...Option) (*Model, error) {
	o := options{splitter: PunktSplitter}
	for _, opt := range opts {
		opt(&o)
	}

	units := o.splitter(corpus)

	vocab := make(map[string]int)
	var df []int
	docs := 0
	for _, unit := range units {
		tokens := Preprocess(unit)
		docs++
		seen := make(map[int]struct{}, len(tokens))
		for _, tok := range tokens {
			id, ok := vocab[tok]
			if !ok {
				id = len(vocab)
				vocab[tok] = id
				df = append(df, 0)
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			df[id]++
		}
	}

	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}

	idf := make([]float64, len(df))
	for id, n := range df {
		idf[id] = math.Log2(float64(docs) / float64(n))
	}

	return &Model{vocab: vocab, idf: idf, docs: docs}, nil
}

// Stats reports training set size and vocabulary size
func (m *Model) Stats() Stats {
	return Stats{Documents: m.docs, Vocabulary: len(m.vocab)}
}

// Similarity returns the cosine similarity of the TF-IDF vectors of two
// texts, in [0, 1]. Out-of-vocabulary tokens are ignored. A text with no
// weighted in-vocabulary terms scores 0.
func (m *Model) Similarity(text1, text2 string) float64 {
	v1 := m.vector(text1)
	v2 := m.vector(text2)
	if len(v1) == 0 || len(v2) == 0 {
		return 0
	}

	// iterate the smaller vector
	if len(v2) < len(v1) {
		v1, v2 = v2, v1
	}
	var dot float64
	for id, w := range v1 {
		dot += w * v2[id]
	}

	switch {
	case math.IsNaN(dot), dot < 0:
		return 0
	case dot > 1:
		return 1
	}
	return dot
}

// vector returns the L2-normalized sparse TF-IDF vector for text, or nil
// when no term carries weight.
func (m *Model) vector(text string) map[int]float64 {
	counts := make(map[int]float64)
	for _, tok := range Preprocess(text) {
		if id, ok := m.vocab[tok]; ok {
			counts[id]++
		}
	}

	var norm float64
	for id, tf := range counts {
		w := tf * m.idf[id]
		if w == 0 {
			delete(counts, id)
			continue
		}
		counts[id] = w
		norm += w * w
	}
	if norm == 0 {
		return nil
	}

	norm = math.Sqrt(norm)
	for id := range counts {
		counts[id] /= norm
	}
	return counts
}
