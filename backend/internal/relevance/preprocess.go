package relevance

import (
	"strings"
	"unicode"
)

// Preprocess lower-cases text, replaces punctuation with spaces, strips
// digits and drops stopwords. Training units and query texts both go
// through this function.
func Preprocess(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			b.WriteRune(' ')
		case unicode.IsDigit(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
