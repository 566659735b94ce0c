package export

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/lexwatch/judgment-scraper/internal/judgment"
)

// Columns is the export header, in order.
var Columns = []string{"keyword", "title", "case_name", "day", "month", "year", "judgment_date", "link"}

// ErrNoRecords is returned when there is nothing to export.
var ErrNoRecords = &Error{Op: "prepare", Err: errors.New("no records to export")}

// Error reports a failed export.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Row is one exported line. Zero values are written as blank cells.
type Row struct {
	Keyword      string `json:"keyword"`
	Title        string `json:"title"`
	CaseName     string `json:"case_name"`
	Day          int    `json:"day"`
	Month        string `json:"month"`
	Year         int    `json:"year"`
	JudgmentDate string `json:"judgment_date"`
	Link         string `json:"link"`

	date time.Time
}

// Values returns the row's cells as strings, in Columns order.
func (r Row) Values() []string {
	return []string{
		r.Keyword,
		r.Title,
		r.CaseName,
		itoa(r.Day),
		r.Month,
		itoa(r.Year),
		r.JudgmentDate,
		r.Link,
	}
}

func (r Row) blank() bool {
	return r == Row{}
}

type linkKey struct {
	keyword string
	link    string
}

// Prepare projects records onto the export columns, drops duplicate
// (keyword, link) pairs keeping the first, drops blank rows and sorts the
// result by keyword ascending then judgment date descending.
func Prepare(records []*judgment.Record) ([]Row, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	seen := make(map[linkKey]struct{}, len(records))
	rows := make([]Row, 0, len(records))

	for _, r := range records {
		if r == nil {
			continue
		}
		k := linkKey{keyword: r.Keyword, link: r.Link}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		row := Row{
			Keyword:      r.Keyword,
			Title:        r.Title,
			CaseName:     r.CaseName,
			Day:          r.Day,
			Month:        r.Month,
			Year:         r.Year,
			JudgmentDate: r.JudgmentDate,
			Link:         r.Link,
		}
		if row.blank() {
			continue
		}
		row.date, _ = time.Parse(judgment.ISODate, r.JudgmentDate)
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Keyword != rows[j].Keyword {
			return rows[i].Keyword < rows[j].Keyword
		}
		return newerFirst(rows[i].date, rows[j].date)
	})

	return rows, nil
}

// newerFirst reports whether a sorts before b: later dates first, missing
// dates last.
func newerFirst(a, b time.Time) bool {
	if !a.IsZero() && !b.IsZero() {
		return a.After(b)
	}
	return !a.IsZero() && b.IsZero()
}

// Filename returns the artifact name for an export made at now.
func Filename(now time.Time, ext string) string {
	return fmt.Sprintf("judgments_%s.%s", now.Format(judgment.ISODate), ext)
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
