package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lexwatch/judgment-scraper/internal/judgment"
)

const monthPattern = `(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)`

var (
	yearRe       = regexp.MustCompile(`^(\d{4})$`)
	monthYearRe  = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{4})$`)
	monthRangeRe = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{4})\s*-\s*` + monthPattern + `\s+(\d{4})$`)
	isoRangeRe   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*\.\.\s*(\d{4}-\d{2}-\d{2})$`)
)

// ParseDateRange parses a period into its first and last day (UTC).
//
// Supported formats:
//   - "2024" - the whole year
//   - "Mar 2024" or "March 2024" - the whole month
//   - "Jan 2024 - Jun 2024" - from the first to the last month, inclusive
//   - "2024-01-15..2024-02-10" - explicit ISO dates
func ParseDateRange(input string) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if m := yearRe.FindStringSubmatch(input); m != nil {
		year, _ := strconv.Atoi(m[1])
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		return &from, &to, nil
	}

	if m := monthYearRe.FindStringSubmatch(input); m != nil {
		year, _ := strconv.Atoi(m[2])
		from, to := monthBounds(parseMonth(m[1]), year)
		return &from, &to, nil
	}

	if m := monthRangeRe.FindStringSubmatch(input); m != nil {
		year1, _ := strconv.Atoi(m[2])
		year2, _ := strconv.Atoi(m[4])
		from, _ := monthBounds(parseMonth(m[1]), year1)
		_, to := monthBounds(parseMonth(m[3]), year2)
		if from.After(to) {
			return nil, nil, fmt.Errorf("start date must be before end date")
		}
		return &from, &to, nil
	}

	if m := isoRangeRe.FindStringSubmatch(input); m != nil {
		from, err := ParseDate(m[1])
		if err != nil {
			return nil, nil, err
		}
		to, err := ParseDate(m[2])
		if err != nil {
			return nil, nil, err
		}
		if from.After(*to) {
			return nil, nil, fmt.Errorf("start date must be before end date")
		}
		return from, to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use '2024', 'Mar 2024', 'Jan 2024 - Jun 2024' or '2024-01-15..2024-02-10'")
}

// ParseDate parses a single YYYY-MM-DD date.
func ParseDate(input string) (*time.Time, error) {
	t, err := time.Parse(judgment.ISODate, strings.TrimSpace(input))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD", input)
	}
	return &t, nil
}

// monthBounds returns the first and last day of a month.
func monthBounds(month time.Month, year int) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return from, to
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))

	months := map[string]time.Month{
		"jan": time.January, "january": time.January,
		"feb": time.February, "february": time.February,
		"mar": time.March, "march": time.March,
		"apr": time.April, "april": time.April,
		"may": time.May,
		"jun": time.June, "june": time.June,
		"jul": time.July, "july": time.July,
		"aug": time.August, "august": time.August,
		"sep": time.September, "sept": time.September, "september": time.September,
		"oct": time.October, "october": time.October,
		"nov": time.November, "november": time.November,
		"dec": time.December, "december": time.December,
	}

	return months[name]
}
