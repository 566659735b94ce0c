package export

import (
	"encoding/csv"
	"io"

	"github.com/lexwatch/judgment-scraper/internal/judgment"
)

// WriteCSV writes records with the same columns and rows as RenderXLSX.
// Nothing is written when there are no records.
func WriteCSV(w io.Writer, records []*judgment.Record) error {
	rows, err := Prepare(records)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return &Error{Op: "csv", Err: err}
	}
	for _, row := range rows {
		if err := cw.Write(row.Values()); err != nil {
			return &Error{Op: "csv", Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &Error{Op: "csv", Err: err}
	}
	return nil
}
