package judgment

import (
	"testing"
	"time"
)

func TestNewRecord(t *testing.T) {
	r := NewRecord("bail", "State vs Union on 10 December, 2025", "12345", "https://indiankanoon.org/doc/12345/")

	if r.Keyword != "bail" {
		t.Errorf("Keyword = %q, want bail", r.Keyword)
	}
	if r.CaseName != "State vs Union" {
		t.Errorf("CaseName = %q, want 'State vs Union'", r.CaseName)
	}
	if r.Day != 10 || r.Month != "December" || r.Year != 2025 {
		t.Errorf("date parts = %d %s %d, want 10 December 2025", r.Day, r.Month, r.Year)
	}
	if r.JudgmentDate != "2025-12-10" {
		t.Errorf("JudgmentDate = %q, want 2025-12-10", r.JudgmentDate)
	}
	if r.DocID != "12345" {
		t.Errorf("DocID = %q, want 12345", r.DocID)
	}
	if !r.InsertedAt.IsZero() {
		t.Error("InsertedAt should be zero before persistence")
	}
}

func TestNewRecord_UnparsedTitle(t *testing.T) {
	r := NewRecord("bail", "Some headnote without a date", "7", "https://indiankanoon.org/doc/7/")

	if r.Title != "Some headnote without a date" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.CaseName != "" || r.Day != 0 || r.Month != "" || r.Year != 0 || r.JudgmentDate != "" {
		t.Errorf("expected empty date fields, got %+v", r)
	}
	if r.Link == "" || r.DocID != "7" {
		t.Errorf("link fields should survive a parse failure, got %+v", r)
	}
}

func TestRecord_Date(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		wantOK bool
		want   time.Time
	}{
		{"valid", "2024-06-01", true, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{"empty", "", false, time.Time{}},
		{"garbage", "June 1", false, time.Time{}},
		{"impossible", "2024-02-31", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{JudgmentDate: tt.date}
			got, ok := r.Date()
			if ok != tt.wantOK {
				t.Fatalf("Date() ok = %v, want %v", ok, tt.wantOK)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Date() = %v, want %v", got, tt.want)
			}
		})
	}
}
