package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lexwatch/judgment-scraper/internal/judgment"
)

// SheetName is the worksheet holding the export.
const SheetName = "Judgments"

// MIMEType is the content type of RenderXLSX output.
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var columnWidths = []float64{18, 60, 50, 10, 10, 10, 14, 42}

const linkColumn = 8

// RenderXLSX renders records as a workbook with a single Judgments sheet.
// The link column holds clickable external hyperlinks.
func RenderXLSX(records []*judgment.Record) ([]byte, error) {
	rows, err := Prepare(records)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, &Error{Op: "xlsx", Err: err}
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, &Error{Op: "xlsx", Err: err}
	}

	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return nil, &Error{Op: "xlsx", Err: err}
	}

	for i, row := range rows {
		line := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, line)
		if err := f.SetSheetRow(SheetName, cell, cellValues(row)); err != nil {
			return nil, &Error{Op: "xlsx", Err: err}
		}

		if row.Link == "" {
			continue
		}
		linkCell, _ := excelize.CoordinatesToCellName(linkColumn, line)
		if err := f.SetCellHyperLink(SheetName, linkCell, row.Link, "External"); err != nil {
			return nil, &Error{Op: "xlsx", Err: fmt.Errorf("hyperlink %s: %w", linkCell, err)}
		}
		if err := f.SetCellStyle(SheetName, linkCell, linkCell, linkStyle); err != nil {
			return nil, &Error{Op: "xlsx", Err: err}
		}
	}

	for i, w := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, &Error{Op: "xlsx", Err: err}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &Error{Op: "xlsx", Err: err}
	}
	return buf.Bytes(), nil
}

// cellValues keeps day and year numeric and leaves absent values empty.
func cellValues(r Row) *[]interface{} {
	cells := []interface{}{
		r.Keyword,
		r.Title,
		r.CaseName,
		nil,
		r.Month,
		nil,
		r.JudgmentDate,
		r.Link,
	}
	if r.Day != 0 {
		cells[3] = r.Day
	}
	if r.Year != 0 {
		cells[5] = r.Year
	}
	return &cells
}
