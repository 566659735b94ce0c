package worker

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "one per line",
			input: "bail\nanticipatory bail\n",
			want:  []string{"bail", "anticipatory bail"},
		},
		{
			name:  "blank lines and padding",
			input: "\n  bail  \n\t\n\r\nsection 302\r\n",
			want:  []string{"bail", "section 302"},
		},
		{
			name:  "repeats kept",
			input: "bail\nbail\n",
			want:  []string{"bail", "bail"},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadKeywords(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadKeywords() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadKeywords() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadKeywordsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.txt")
	if err := os.WriteFile(path, []byte("bail\ncustody\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadKeywordsFile(path)
	if err != nil {
		t.Fatalf("ReadKeywordsFile() error: %v", err)
	}
	if len(got) != 2 || got[1] != "custody" {
		t.Errorf("ReadKeywordsFile() = %q", got)
	}

	if _, err := ReadKeywordsFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
