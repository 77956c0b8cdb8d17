package relevance

import (
	"strings"
	"sync"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Splitter breaks a corpus into sentence-level training units
type Splitter func(text string) []string

var (
	punktOnce      sync.Once
	punktTokenizer *sentences.DefaultSentenceTokenizer
	punktErr       error
)

// PunktSplitter segments with the pre-trained English Punkt model, which
// knows abbreviations and initials. Falls back to SimpleSplit if the model
// cannot be loaded.
func PunktSplitter(text string) []string {
	punktOnce.Do(func() {
		punktTokenizer, punktErr = english.NewSentenceTokenizer(nil)
	})
	if punktErr != nil || punktTokenizer == nil {
		return SimpleSplit(text)
	}

	var out []string
	for _, s := range punktTokenizer.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SimpleSplit splits after '.', '!' or '?' when followed by whitespace
func SimpleSplit(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
		default:
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
