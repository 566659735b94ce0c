package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const resultsPage = `
<html>
	<body>
		<a href="/">Home</a>
		<a href="/search/?formInput=bail&pagenum=1">Next</a>
		<div class="result">
			<a href="/docfragment/111/?formInput=bail">State vs Union on 10 December, 2025</a>
			<a href="/doc/111/">Full Document</a>
		</div>
		<div class="result">
			<a href="/doc/222/#tracking">
				Ram   Kumar vs State on 1 June, 2024
			</a>
			<a href="/doc/222/">FULL DOCUMENT</a>
		</div>
		<div class="result">
			<a href="/doc/333/"></a>
			<a href="">Empty href</a>
			<a href="/docfragment/333/">Order without a date</a>
		</div>
		<div class="result">
			<a href="https://elsewhere.example/doc/999/">Mirror vs Copy on 2 May, 2023</a>
			<a href="/doc/444/">A vs B on 31 February, 2024</a>
		</div>
	</body>
</html>`

// stubRenderer returns canned HTML and records the URL it was asked for.
type stubRenderer struct {
	html string
	err  error
	urls []string
}

func (s *stubRenderer) Render(ctx context.Context, url string) (string, error) {
	s.urls = append(s.urls, url)
	return s.html, s.err
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		keyword string
		docType string
		want    string
	}{
		{
			name:    "single word",
			base:    "https://indiankanoon.org",
			keyword: "bail",
			docType: "supremecourt",
			want:    "https://indiankanoon.org/search/?formInput=bail++doctypes%3A+supremecourt+sortby%3Amostrecent",
		},
		{
			name:    "spaces become %20",
			base:    "https://indiankanoon.org/",
			keyword: "anticipatory bail",
			docType: "supremecourt",
			want:    "https://indiankanoon.org/search/?formInput=anticipatory%20bail++doctypes%3A+supremecourt+sortby%3Amostrecent",
		},
		{
			name:    "reserved characters escaped",
			base:    "https://indiankanoon.org",
			keyword: "section 302 & 34+IPC",
			docType: "delhi",
			want:    "https://indiankanoon.org/search/?formInput=section%20302%20%26%2034%2BIPC++doctypes%3A+delhi+sortby%3Amostrecent",
		},
		{
			name:    "slashes kept",
			base:    "https://indiankanoon.org",
			keyword: "section 302/34",
			docType: "supremecourt",
			want:    "https://indiankanoon.org/search/?formInput=section%20302/34++doctypes%3A+supremecourt+sortby%3Amostrecent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SearchURL(tt.base, tt.keyword, tt.docType); got != tt.want {
				t.Errorf("SearchURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractRecords(t *testing.T) {
	s := New(&stubRenderer{}, Options{BaseURL: "https://indiankanoon.org"})

	records, err := s.extractRecords(strings.NewReader(resultsPage), "bail", 10)
	if err != nil {
		t.Fatalf("extractRecords() error: %v", err)
	}

	wantIDs := []string{"111", "222", "333", "444"}
	if len(records) != len(wantIDs) {
		t.Fatalf("extractRecords() returned %d records, want %d: %+v", len(records), len(wantIDs), records)
	}
	for i, id := range wantIDs {
		if records[i].DocID != id {
			t.Errorf("records[%d].DocID = %q, want %q", i, records[i].DocID, id)
		}
		if want := "https://indiankanoon.org/doc/" + id + "/"; records[i].Link != want {
			t.Errorf("records[%d].Link = %q, want %q", i, records[i].Link, want)
		}
		if records[i].Keyword != "bail" {
			t.Errorf("records[%d].Keyword = %q, want bail", i, records[i].Keyword)
		}
	}

	first := records[0]
	if first.CaseName != "State vs Union" || first.JudgmentDate != "2025-12-10" {
		t.Errorf("first record not parsed: %+v", first)
	}

	second := records[1]
	if second.Title != "Ram Kumar vs State on 1 June, 2024" {
		t.Errorf("whitespace not collapsed: %q", second.Title)
	}
	if second.JudgmentDate != "2024-06-01" {
		t.Errorf("second.JudgmentDate = %q, want 2024-06-01", second.JudgmentDate)
	}

	undated := records[2]
	if undated.Title != "Order without a date" || undated.JudgmentDate != "" || undated.CaseName != "" {
		t.Errorf("undated record should keep title only: %+v", undated)
	}

	invalid := records[3]
	if invalid.Day != 31 || invalid.Month != "February" || invalid.JudgmentDate != "" {
		t.Errorf("impossible date should keep parts without ISO date: %+v", invalid)
	}
}

func TestExtractRecords_MaxLinks(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 1; i <= 20; i++ {
		b.WriteString(`<a href="/doc/`)
		b.WriteString(strings.Repeat("1", i))
		b.WriteString(`/">Case on 1 January, 2020</a>`)
	}
	b.WriteString("</body></html>")

	s := New(&stubRenderer{}, Options{})

	for _, max := range []int{1, 3, 20} {
		records, err := s.extractRecords(strings.NewReader(b.String()), "k", max)
		if err != nil {
			t.Fatalf("extractRecords() error: %v", err)
		}
		if len(records) != max {
			t.Errorf("max=%d: got %d records", max, len(records))
		}
	}

	records, _ := s.extractRecords(strings.NewReader(b.String()), "k", 3)
	for i, want := range []string{"1", "11", "111"} {
		if records[i].DocID != want {
			t.Errorf("records[%d].DocID = %q, want %q (page order)", i, records[i].DocID, want)
		}
	}
}

func TestExtractRecords_NoMatches(t *testing.T) {
	s := New(&stubRenderer{}, Options{})

	records, err := s.extractRecords(strings.NewReader(`<html><body><p>No matching results</p></body></html>`), "k", 10)
	if err != nil {
		t.Fatalf("extractRecords() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestFetch_UsesSearchURL(t *testing.T) {
	r := &stubRenderer{html: resultsPage}
	s := New(r, Options{BaseURL: "https://indiankanoon.org", DocType: "supremecourt"})

	records, err := s.Fetch(context.Background(), "bail", 2)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Fetch() returned %d records, want 2", len(records))
	}
	if len(r.urls) != 1 || r.urls[0] != SearchURL("https://indiankanoon.org", "bail", "supremecourt") {
		t.Errorf("renderer called with %v", r.urls)
	}
}

func TestFetch_InvalidMaxLinks(t *testing.T) {
	r := &stubRenderer{html: resultsPage}
	s := New(r, Options{})

	for _, max := range []int{0, -1, 51} {
		_, err := s.Fetch(context.Background(), "bail", max)
		if !errors.Is(err, ErrInvalidMaxLinks) {
			t.Errorf("Fetch(max=%d) error = %v, want ErrInvalidMaxLinks", max, err)
		}
	}
	if len(r.urls) != 0 {
		t.Error("renderer should not be called for invalid max links")
	}
}

func TestFetch_RenderError(t *testing.T) {
	renderErr := errors.New("navigation timeout")
	s := New(&stubRenderer{err: renderErr}, Options{})

	_, err := s.Fetch(context.Background(), "bail", 5)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Fetch() error = %v, want *FetchError", err)
	}
	if fetchErr.Keyword != "bail" {
		t.Errorf("FetchError.Keyword = %q, want bail", fetchErr.Keyword)
	}
	if !errors.Is(err, renderErr) {
		t.Error("FetchError should wrap the renderer error")
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(&stubRenderer{}, Options{})

	if s.baseURL != BaseURL {
		t.Errorf("baseURL = %q, want %q", s.baseURL, BaseURL)
	}
	if s.docType != DefaultDocType {
		t.Errorf("docType = %q, want %q", s.docType, DefaultDocType)
	}
}

var _ Fetcher = (*Scraper)(nil)
var _ Fetcher = (*CachedFetcher)(nil)
var _ Renderer = (*HTTPRenderer)(nil)
var _ Renderer = (*BrowserRenderer)(nil)
