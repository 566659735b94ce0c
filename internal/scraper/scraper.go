package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lexwatch/judgment-scraper/internal/judgment"
)

const (
	BaseURL        = "https://indiankanoon.org"
	DefaultDocType = "supremecourt"
	UserAgent      = "judgment-scraper/1.0 (github.com/lexwatch/judgment-scraper)"
	Timeout        = 30 * time.Second

	MinLinks = 1
	MaxLinks = 50

	// noiseLabel is the text of the per-result "Full Document" shortcut,
	// which points at the same document as the title link.
	noiseLabel = "full document"
)

var (
	// ErrInvalidMaxLinks is returned when maxLinks is outside MinLinks..MaxLinks.
	ErrInvalidMaxLinks = fmt.Errorf("max links must be between %d and %d", MinLinks, MaxLinks)
	// ErrDisallowed is returned when robots.txt disallows the search URL.
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// Fetcher produces judgment records for one keyword.
type Fetcher interface {
	Fetch(ctx context.Context, keyword string, maxLinks int) ([]*judgment.Record, error)
}

// Renderer loads a URL and returns the document HTML once it is ready to read.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// FetchError reports a failed fetch for a single keyword.
type FetchError struct {
	Keyword string
	URL     string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %q: %v", e.Keyword, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Options configures a Scraper.
type Options struct {
	BaseURL string
	DocType string
	Robots  *RobotsChecker // optional
}

// Scraper searches for judgments matching a keyword
type Scraper struct {
	renderer Renderer
	baseURL  string
	docType  string
	robots   *RobotsChecker
}

// New creates a new Scraper that loads pages through renderer
func New(renderer Renderer, opts Options) *Scraper {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.DocType == "" {
		opts.DocType = DefaultDocType
	}
	return &Scraper{
		renderer: renderer,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		docType:  opts.DocType,
		robots:   opts.Robots,
	}
}

// SearchURL builds the search URL for a keyword: the keyword is percent-encoded
// (slashes kept, as in "302/34") and followed by the document type filter and
// most-recent-first ordering.
func SearchURL(base, keyword, docType string) string {
	encoded := strings.NewReplacer("+", "%20", "%2F", "/").Replace(url.QueryEscape(keyword))
	formInput := encoded + "++doctypes%3A+" + url.QueryEscape(docType) + "+sortby%3Amostrecent"
	return strings.TrimRight(base, "/") + "/search/?formInput=" + formInput
}

// Fetch returns records for the first maxLinks document links on the search
// results page for keyword, in page order.
func (s *Scraper) Fetch(ctx context.Context, keyword string, maxLinks int) ([]*judgment.Record, error) {
	if maxLinks < MinLinks || maxLinks > MaxLinks {
		return nil, ErrInvalidMaxLinks
	}

	searchURL := SearchURL(s.baseURL, keyword, s.docType)

	if s.robots != nil {
		allowed, err := s.robots.Allowed(ctx, searchURL)
		if err != nil {
			return nil, &FetchError{Keyword: keyword, URL: searchURL, Err: err}
		}
		if !allowed {
			return nil, &FetchError{Keyword: keyword, URL: searchURL, Err: ErrDisallowed}
		}
	}

	html, err := s.renderer.Render(ctx, searchURL)
	if err != nil {
		return nil, &FetchError{Keyword: keyword, URL: searchURL, Err: err}
	}

	records, err := s.extractRecords(strings.NewReader(html), keyword, maxLinks)
	if err != nil {
		return nil, &FetchError{Keyword: keyword, URL: searchURL, Err: err}
	}
	return records, nil
}

// extractRecords walks anchors in document order and stops as soon as
// maxLinks document links were accepted.
func (s *Scraper) extractRecords(r io.Reader, keyword string, maxLinks int) ([]*judgment.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	records := make([]*judgment.Record, 0, maxLinks)

	doc.Find("a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := visibleText(sel)
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)

		if text == "" || href == "" {
			return true
		}
		if strings.EqualFold(text, noiseLabel) {
			return true
		}

		docID, ok := judgment.DocIDFromHref(href)
		if !ok {
			return true
		}
		if !s.sameSite(href) {
			return true
		}

		link := judgment.CanonicalLink(s.baseURL, docID)
		records = append(records, judgment.NewRecord(keyword, text, docID, link))

		return len(records) < maxLinks
	})

	return records, nil
}

// sameSite rejects absolute links that point at another host.
func (s *Scraper) sameSite(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Host == "" {
		return true
	}
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, base.Host)
}

// visibleText collapses whitespace the way a browser renders anchor text.
func visibleText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
