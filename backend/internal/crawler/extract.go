package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "newsgraph/backend/pkg/errors"
)

// Extracted holds the fields pulled from an article page
type Extracted struct {
	Header        string
	Author        string
	DatePublished string
	Text          string
	Topics        []string
	Links         []string // absolute nested links in document order
}

// Extractor pulls listing links and article fields out of a page. It is
// site-specific.
type Extractor interface {
	ExtractListing(pageURL, html string) ([]string, error)
	ExtractArticle(pageURL, html string) (*Extracted, error)
}

// Selectors configures a SelectorExtractor
type Selectors struct {
	ListingItem  string
	ListingLink  string
	Header       string
	Date         string
	DateFallback string
	Author       string
	Paragraph    string
	Topics       string
	NestedLinks  string
}

// TimeSelectors matches time.com section and article markup
var TimeSelectors = Selectors{
	ListingItem:  "div.taxonomy-tout",
	ListingLink:  "a",
	Header:       "h1",
	Date:         "time",
	DateFallback: "span.entry-date",
	Author:       `a[href*="/author/"]`,
	Paragraph:    "p",
	Topics:       "header ul li a",
	NestedLinks:  "p a",
}

// SelectorExtractor implements Extractor with CSS selectors
type SelectorExtractor struct {
	sel Selectors
}

// NewSelectorExtractor creates an extractor for the given selectors
func NewSelectorExtractor(sel Selectors) *SelectorExtractor {
	return &SelectorExtractor{sel: sel}
}

// NewTimeExtractor creates the extractor for time.com
func NewTimeExtractor() *SelectorExtractor {
	return NewSelectorExtractor(TimeSelectors)
}

// ExtractListing returns the first link of every listing item
func (e *SelectorExtractor) ExtractListing(pageURL, html string) ([]string, error) {
	base, doc, err := parse(pageURL, html)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find(e.sel.ListingItem).Each(func(_ int, item *goquery.Selection) {
		href, ok := item.Find(e.sel.ListingLink).First().Attr("href")
		if !ok {
			return
		}
		if abs := resolve(base, href); abs != "" {
			links = append(links, abs)
		}
	})
	return links, nil
}

// ExtractArticle returns the article fields. Missing fields are left empty.
func (e *SelectorExtractor) ExtractArticle(pageURL, html string) (*Extracted, error) {
	base, doc, err := parse(pageURL, html)
	if err != nil {
		return nil, err
	}

	out := &Extracted{
		Header: strings.TrimSpace(doc.Find(e.sel.Header).First().Text()),
		Author: strings.TrimSpace(doc.Find(e.sel.Author).First().Text()),
	}

	var dates []string
	doc.Find(e.sel.Date).Each(func(_ int, s *goquery.Selection) {
		if d := strings.TrimSpace(s.Text()); d != "" {
			dates = append(dates, d)
		}
	})
	out.DatePublished = strings.Join(dates, " | ")
	if out.DatePublished == "" && e.sel.DateFallback != "" {
		out.DatePublished = strings.TrimSpace(doc.Find(e.sel.DateFallback).First().Text())
	}

	var paragraphs []string
	doc.Find(e.sel.Paragraph).Each(func(_ int, s *goquery.Selection) {
		if p := strings.Join(strings.Fields(s.Text()), " "); p != "" {
			paragraphs = append(paragraphs, p)
		}
	})
	out.Text = strings.Join(paragraphs, " ")

	doc.Find(e.sel.Topics).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out.Topics = append(out.Topics, t)
		}
	})

	doc.Find(e.sel.NestedLinks).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if abs := resolve(base, href); abs != "" {
			out.Links = append(out.Links, abs)
		}
	})

	return out, nil
}

func parse(pageURL, html string) (*url.URL, *goquery.Document, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, apperrors.NewParseFailed(pageURL, "invalid page url", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, apperrors.NewParseFailed(pageURL, "invalid html", err)
	}
	return base, doc, nil
}

// resolve makes href absolute against base; unusable hrefs yield ""
func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}
