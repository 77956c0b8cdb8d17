package corpus

import (
	"regexp"
	"strings"
)

var cleaners = []*regexp.Regexp{
	regexp.MustCompile(`\[\+\d+ chars\]`),
	regexp.MustCompile(`<[^>]*>`),
	regexp.MustCompile(`If you click 'Accept all',.*?device`),
	regexp.MustCompile(`\(in other words, use (?:…|â€¦|\.\.\.)`),
	regexp.MustCompile(`\[Removed\]`),
	regexp.MustCompile(`\[\+\]`),
}

// CleanText strips search-API truncation markers, markup and consent-banner
// boilerplate from an article snippet and collapses whitespace.
func CleanText(text string) string {
	for _, re := range cleaners {
		text = re.ReplaceAllString(text, "")
	}
	return strings.Join(strings.Fields(text), " ")
}
