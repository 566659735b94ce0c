// Package filter narrows stored judgments before export.
//
// Criteria combine with AND; values within one criterion combine with OR:
//   - Date range: judgment date within DateFrom..DateTo (inclusive). Undated
//     judgments never match an active date range.
//   - Keywords: the search keyword equals one of the values (case-insensitive)
//   - Terms: the case name or title contains one of the values (case-insensitive)
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Keywords = []string{"bail"}
//	f.DateFrom, f.DateTo, _ = filter.ParseDateRange("2024")
//
//	records = f.Apply(records)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/lexwatch/judgment-scraper/internal/judgment"
)

// Filter represents judgment filtering criteria
type Filter struct {
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	Keywords []string `json:"keywords,omitempty"`
	Terms    []string `json:"terms,omitempty"`
}

// NewFilter creates an empty filter that matches every judgment.
func NewFilter() *Filter {
	return &Filter{
		Keywords: []string{},
		Terms:    []string{},
	}
}

// IsEmpty reports whether the filter has no active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Keywords) == 0 &&
		len(f.Terms) == 0
}

// Matches reports whether r passes all active criteria.
func (f *Filter) Matches(r *judgment.Record) bool {
	if r == nil {
		return false
	}
	if f.IsEmpty() {
		return true
	}

	if f.DateFrom != nil || f.DateTo != nil {
		date, ok := r.Date()
		if !ok {
			return false
		}
		if f.DateFrom != nil && date.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && date.After(*f.DateTo) {
			return false
		}
	}

	if len(f.Keywords) > 0 {
		matched := false
		for _, kw := range f.Keywords {
			if strings.EqualFold(strings.TrimSpace(kw), r.Keyword) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Terms) > 0 {
		matched := false
		haystack := strings.ToLower(r.CaseName + "\n" + r.Title)
		for _, term := range f.Terms {
			if strings.Contains(haystack, strings.ToLower(term)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns the judgments that match. An empty filter returns records
// unchanged.
func (f *Filter) Apply(records []*judgment.Record) []*judgment.Record {
	if f.IsEmpty() {
		return records
	}

	var filtered []*judgment.Record
	for _, r := range records {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// String describes the active criteria, e.g.
// "From: Jan 1, 2024 | To: Dec 31, 2024 | Keywords: bail".
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Keywords) > 0 {
		parts = append(parts, fmt.Sprintf("Keywords: %s", strings.Join(f.Keywords, ", ")))
	}
	if len(f.Terms) > 0 {
		parts = append(parts, fmt.Sprintf("Terms: %s", strings.Join(f.Terms, ", ")))
	}
	return strings.Join(parts, " | ")
}
