package judgment

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var (
	// "Foo vs Bar on 10 December, 2025"
	titlePattern = regexp.MustCompile(`^(.*?)\s+on\s+(\d{1,2})\s+([A-Za-z]+),\s+(\d{4})$`)

	docFragmentPattern = regexp.MustCompile(`^/docfragment/(\d+)(?:/|$)`)
	docPattern         = regexp.MustCompile(`^/doc/(\d+)(?:/|$)`)
)

// Title holds the parts extracted from a result title.
type Title struct {
	CaseName string
	Day      int
	Month    string
	Year     int
	ISODate  string // empty when day/month/year is not a calendar date
}

// ParseTitle parses titles of the form "<case> on <day> <Month>, <year>".
// Returns false when the text does not have that shape. A match with an
// impossible date (31 February) still returns true with an empty ISODate.
func ParseTitle(text string) (Title, bool) {
	text = strings.TrimSpace(norm.NFKC.String(text))
	m := titlePattern.FindStringSubmatch(text)
	if m == nil {
		return Title{}, false
	}

	day, err := strconv.Atoi(m[2])
	if err != nil {
		return Title{}, false
	}
	year, err := strconv.Atoi(m[4])
	if err != nil {
		return Title{}, false
	}

	t := Title{
		CaseName: strings.TrimSpace(m[1]),
		Day:      day,
		Month:    strings.TrimSpace(m[3]),
		Year:     year,
	}
	t.ISODate = isoDate(day, t.Month, year)
	return t, true
}

// isoDate resolves a full month name; time.Parse rejects days outside the month.
func isoDate(day int, month string, year int) string {
	d, err := time.Parse("2 January 2006", fmt.Sprintf("%d %s %d", day, month, year))
	if err != nil {
		return ""
	}
	return d.Format(ISODate)
}

// DocIDFromHref extracts the numeric document id from a result link.
// Accepted shapes are /docfragment/<id>/... and /doc/<id>/..., either relative
// or as the path of an absolute URL.
func DocIDFromHref(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	path := href
	if u, err := url.Parse(href); err == nil {
		path = u.Path
	}

	if m := docFragmentPattern.FindStringSubmatch(path); m != nil {
		return m[1], true
	}
	if m := docPattern.FindStringSubmatch(path); m != nil {
		return m[1], true
	}
	return "", false
}

// CanonicalLink rebuilds the document URL from its id, dropping any tracking
// path segments, query or fragment from the original href.
func CanonicalLink(base, docID string) string {
	return strings.TrimRight(base, "/") + "/doc/" + docID + "/"
}
