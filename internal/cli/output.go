package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lexwatch/judgment-scraper/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// ScrapeResult is what the scrape command reports.
type ScrapeResult struct {
	*pipeline.Report
	StoredTotal int      `json:"stored_total"`
	Artifacts   []string `json:"artifacts,omitempty"`
}

// WriteScrapeResult writes the result in the specified format
func WriteScrapeResult(w io.Writer, result *ScrapeResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *ScrapeResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText prints one table row per keyword followed by totals.
func writeText(w io.Writer, result *ScrapeResult) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Keyword", "Records", "Status", "Duration"})

	for _, k := range result.Keywords {
		status := "ok"
		if !k.Succeeded() {
			status = "failed: " + k.Error
		}
		t.AppendRow(table.Row{k.Keyword, k.Records, status, k.Duration.Round(time.Millisecond)})
	}

	t.AppendFooter(table.Row{
		"Total",
		len(result.Records),
		fmt.Sprintf("%d/%d ok", len(result.Keywords)-result.FailedCount(), len(result.Keywords)),
		result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	fmt.Fprintf(w, "\nNew judgments stored: %d (total %d)\n", result.Inserted, result.StoredTotal)
	if len(result.Records) == 0 {
		fmt.Fprintln(w, "No judgments found; nothing exported.")
	}
	for _, p := range result.Artifacts {
		fmt.Fprintf(w, "Wrote %s\n", p)
	}
	return nil
}
