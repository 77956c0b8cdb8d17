// Package sentiment scores text polarity in [-1, 1] and subjectivity in
// [0, 1].
package sentiment

import (
	"context"
	"strings"
	"unicode"
)

type entry struct {
	polarity     float64
	subjectivity float64
}

// Lexicon averages per-word polarity and subjectivity over the adjectives
// and adverbs it knows. Intensifiers scale the following word and a
// preceding negation flips and halves its polarity. Text with no known
// words scores (0, 0).
type Lexicon struct {
	words        map[string]entry
	intensifiers map[string]float64
	negations    map[string]struct{}
}

// NewLexicon returns the built-in English lexicon
func NewLexicon() *Lexicon {
	return &Lexicon{
		words:        englishWords,
		intensifiers: englishIntensifiers,
		negations:    englishNegations,
	}
}

// Analyze implements the crawler's Analyzer
func (l *Lexicon) Analyze(_ context.Context, text string) (float64, float64, error) {
	p, s := l.Score(text)
	return p, s, nil
}

// Score returns (polarity, subjectivity)
func (l *Lexicon) Score(text string) (float64, float64) {
	words := tokens(text)

	var sumP, sumS float64
	n := 0
	for i, w := range words {
		e, ok := l.words[w]
		if !ok {
			continue
		}
		p, s := e.polarity, e.subjectivity

		prev := i - 1
		if prev >= 0 {
			if m, ok := l.intensifiers[words[prev]]; ok {
				p *= m
				s *= m
				prev--
			}
		}
		if prev >= 0 && l.negated(words[prev]) {
			p *= -0.5
		}

		sumP += p
		sumS += s
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return clamp(sumP/float64(n), -1, 1), clamp(sumS/float64(n), 0, 1)
}

func (l *Lexicon) negated(w string) bool {
	if _, ok := l.negations[w]; ok {
		return true
	}
	return strings.HasSuffix(w, "n't")
}

func tokens(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
