package crawler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// DefaultDenyPatterns reject non-article paths on news sites
var DefaultDenyPatterns = []string{
	`/tag/`,
	`/time-person-of`,
	`/author/`,
	`/section/`,
	`/newsletters?/`,
	`/subscribe`,
	`/video/`,
}

// Canonicalize normalizes an absolute http(s) URL: lower-cased scheme and
// host, no fragment, no query, no trailing slash. www. is kept.
func Canonicalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme in %q", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""
	u.ForceQuery = false
	u.User = nil
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String(), nil
}

// NodeID derives the stable article id: hex of the first 16 bytes of
// SHA-256 over the canonical URL.
func NodeID(raw string) string {
	canon, err := Canonicalize(raw)
	if err != nil {
		canon = raw
	}
	sum := sha256.Sum256([]byte(canon))
	return hex.EncodeToString(sum[:16])
}

// RegistrableDomain returns the eTLD+1 of a URL's host. IP addresses and
// single-label hosts are returned as-is.
func RegistrableDomain(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	if net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return host, nil
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host, nil
	}
	return domain, nil
}

// VisitedSet is a job-scoped set of canonical URLs
type VisitedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewVisitedSet creates an empty set
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(map[string]struct{})}
}

// Add inserts url and reports whether it was absent
func (v *VisitedSet) Add(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[url]; ok {
		return false
	}
	v.seen[url] = struct{}{}
	return true
}

// Contains reports whether url was added
func (v *VisitedSet) Contains(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.seen[url]
	return ok
}

// Len returns the number of visited URLs
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}

// LinkFilter decides which discovered links a job follows
type LinkFilter struct {
	domain  string
	deny    []*regexp.Regexp
	visited *VisitedSet
}

// NewLinkFilter builds a filter scoped to the seed's registrable domain.
// An empty denyPatterns uses DefaultDenyPatterns.
func NewLinkFilter(seed string, denyPatterns []string, visited *VisitedSet) (*LinkFilter, error) {
	domain, err := RegistrableDomain(seed)
	if err != nil {
		return nil, fmt.Errorf("seed %q: %w", seed, err)
	}
	if len(denyPatterns) == 0 {
		denyPatterns = DefaultDenyPatterns
	}
	deny := make([]*regexp.Regexp, 0, len(denyPatterns))
	for _, p := range denyPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("deny pattern %q: %w", p, err)
		}
		deny = append(deny, re)
	}
	if visited == nil {
		visited = NewVisitedSet()
	}
	return &LinkFilter{domain: domain, deny: deny, visited: visited}, nil
}

// Permitted applies the domain, denylist and self-link rules without
// touching the visited set. from is the canonical URL of the page the link
// was found on and may be empty. Returns the canonical form on success.
func (f *LinkFilter) Permitted(raw, from string) (string, bool) {
	canon, err := Canonicalize(raw)
	if err != nil {
		return "", false
	}
	domain, err := RegistrableDomain(canon)
	if err != nil || domain != f.domain {
		return "", false
	}
	u, _ := url.Parse(canon)
	path := u.Path + "/"
	for _, re := range f.deny {
		if re.MatchString(path) {
			return "", false
		}
	}
	if from != "" && canon == from {
		return "", false
	}
	return canon, true
}

// Accept is Permitted plus an atomic check-and-add against the visited set
func (f *LinkFilter) Accept(raw, from string) (string, bool) {
	canon, ok := f.Permitted(raw, from)
	if !ok {
		return "", false
	}
	if !f.visited.Add(canon) {
		return canon, false
	}
	return canon, true
}

// Visited exposes the filter's visited set
func (f *LinkFilter) Visited() *VisitedSet {
	return f.visited
}
