package judgment

import (
	"time"
)

// ISODate is the layout used for JudgmentDate.
const ISODate = "2006-01-02"

// Record represents one matched judgment document.
// Absent values are zero values: "" for strings and 0 for Day/Year.
type Record struct {
	Keyword      string    `json:"keyword"`
	Title        string    `json:"title,omitempty"`
	CaseName     string    `json:"case_name,omitempty"`
	Day          int       `json:"day,omitempty"`
	Month        string    `json:"month,omitempty"`
	Year         int       `json:"year,omitempty"`
	JudgmentDate string    `json:"judgment_date,omitempty"` // YYYY-MM-DD
	DocID        string    `json:"doc_id,omitempty"`
	Link         string    `json:"link"`
	InsertedAt   time.Time `json:"inserted_at,omitempty"`
}

// NewRecord creates a Record for a search hit and fills the case name and date
// fields when the title parses.
func NewRecord(keyword, title, docID, link string) *Record {
	r := &Record{
		Keyword: keyword,
		Title:   title,
		DocID:   docID,
		Link:    link,
	}
	if t, ok := ParseTitle(title); ok {
		r.CaseName = t.CaseName
		r.Day = t.Day
		r.Month = t.Month
		r.Year = t.Year
		r.JudgmentDate = t.ISODate
	}
	return r
}

// Date returns the parsed JudgmentDate.
// ok is false when the date is absent or not a valid ISO date.
func (r *Record) Date() (time.Time, bool) {
	if r.JudgmentDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(ISODate, r.JudgmentDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
