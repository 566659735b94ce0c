// Package export renders judgment records as an XLSX workbook or a CSV file.
//
// Both formats share the same eight columns and the same prepared rows:
// deduplicated by (keyword, link), sorted by keyword and then newest
// judgment first, with undated rows at the end of each keyword.
package export
