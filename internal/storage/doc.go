// Package storage persists judgment records in a single SQLite file.
//
// Records are insert-if-absent: the table carries a unique constraint on
// (doc_id, judgment_date), so re-running the same scrape never duplicates
// rows and never updates existing ones. The default database location is
// ~/.local/share/judgments/judgments.db.
package storage
