package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lexwatch/judgment-scraper/internal/judgment"
	"github.com/lexwatch/judgment-scraper/internal/logger"
)

//go:embed schema.sql
var schema string

// DefaultPath is where the database lives when no path is configured.
const DefaultPath = "~/.local/share/judgments/judgments.db"

// Error reports a failed storage operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Store is the judgments table of one SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the database at path and initializes the
// schema. The special path ":memory:" gives a private in-memory database.
func New(path string) (*Store, error) {
	dsn, err := dataSource(path)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	// One connection serializes writers and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func dataSource(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
}

// SetClock replaces the time source used for inserted_at and Recent.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize creates the table and indexes. It is safe to call repeatedly.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &Error{Op: "initialize", Err: err}
	}
	return nil
}

// Upsert inserts records that are not yet stored and returns how many rows
// were added. Records already present by (doc_id, judgment_date) are left
// untouched. Records without a doc id have no identity and are skipped. All
// rows are written in one transaction.
func (s *Store) Upsert(ctx context.Context, records []*judgment.Record) (int, error) {
	records = withDocID(judgment.Dedupe(records))
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &Error{Op: "upsert", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO judgments
		(keyword, title, case_name, day, month, year, judgment_date, doc_id, link, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, &Error{Op: "upsert", Err: err}
	}
	defer stmt.Close()

	insertedAt := s.now().UTC()
	stamp := insertedAt.Format(time.RFC3339)

	inserted := 0
	for _, r := range records {
		res, err := stmt.ExecContext(ctx,
			nullString(r.Keyword),
			nullString(r.Title),
			nullString(r.CaseName),
			nullInt(r.Day),
			nullString(r.Month),
			nullInt(r.Year),
			nullString(r.JudgmentDate),
			nullString(r.DocID),
			nullString(r.Link),
			stamp,
		)
		if err != nil {
			return 0, &Error{Op: "upsert", Err: fmt.Errorf("doc %s: %w", r.DocID, err)}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, &Error{Op: "upsert", Err: err}
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, &Error{Op: "upsert", Err: err}
	}

	return inserted, nil
}

const selectColumns = `SELECT keyword, title, case_name, day, month, year, judgment_date, doc_id, link, inserted_at FROM judgments`

// Newest first; undated rows last; ties in insertion order.
const orderBy = ` ORDER BY judgment_date IS NULL, judgment_date DESC, id ASC`

// All returns every stored record.
func (s *Store) All(ctx context.Context) ([]*judgment.Record, error) {
	records, err := s.query(ctx, selectColumns+orderBy)
	if err != nil {
		return nil, &Error{Op: "all", Err: err}
	}
	return records, nil
}

// Recent returns dated records whose judgment date is within the last
// windowDays days, counting from today.
func (s *Store) Recent(ctx context.Context, windowDays int) ([]*judgment.Record, error) {
	if windowDays < 0 {
		return nil, &Error{Op: "recent", Err: fmt.Errorf("window must not be negative: %d", windowDays)}
	}

	start := s.now().AddDate(0, 0, -windowDays).Format(judgment.ISODate)

	records, err := s.query(ctx,
		selectColumns+` WHERE judgment_date IS NOT NULL AND judgment_date >= ?`+orderBy,
		start)
	if err != nil {
		return nil, &Error{Op: "recent", Err: err}
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM judgments`).Scan(&n); err != nil {
		return 0, &Error{Op: "count", Err: err}
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]*judgment.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*judgment.Record
	for rows.Next() {
		var (
			keyword, title, caseName, month sql.NullString
			date, docID, link, insertedAt   sql.NullString
			day, year                       sql.NullInt64
		)
		if err := rows.Scan(&keyword, &title, &caseName, &day, &month, &year, &date, &docID, &link, &insertedAt); err != nil {
			return nil, err
		}

		r := &judgment.Record{
			Keyword:      keyword.String,
			Title:        title.String,
			CaseName:     caseName.String,
			Day:          int(day.Int64),
			Month:        month.String,
			Year:         int(year.Int64),
			JudgmentDate: date.String,
			DocID:        docID.String,
			Link:         link.String,
		}
		if insertedAt.Valid {
			if t, err := time.Parse(time.RFC3339, insertedAt.String); err == nil {
				r.InsertedAt = t
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// withDocID drops records that cannot be keyed.
func withDocID(records []*judgment.Record) []*judgment.Record {
	kept := records[:0:0]
	for _, r := range records {
		if r.DocID != "" {
			kept = append(kept, r)
		}
	}
	if skipped := len(records) - len(kept); skipped > 0 {
		logger.Warn("Skipping records without a doc id", logger.Fields{"skipped": skipped})
	}
	return kept
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
