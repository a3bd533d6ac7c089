// Package journal keeps a local SQLite record of every submission attempt so
// a reviewer can tell which reviews actually reached the collector.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kingrea/peerreview/internal/submission"

	_ "modernc.org/sqlite"
)

// Status is the outcome recorded for an attempt.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusFailed   Status = "failed"
)

const schema = `CREATE TABLE IF NOT EXISTS submissions (
	id          TEXT PRIMARY KEY,
	reviewer    TEXT NOT NULL,
	presenter   TEXT NOT NULL,
	total       REAL NOT NULL,
	details     TEXT NOT NULL,
	status      TEXT NOT NULL,
	status_code INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	attempt     INTEGER NOT NULL DEFAULT 1,
	created_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);`

// Entry is one recorded submission attempt.
type Entry struct {
	ID         string
	Reviewer   string
	Presenter  string
	Total      float64
	Details    string
	Status     Status
	StatusCode int
	Error      string
	Attempt    int
	CreatedAt  time.Time
}

// NewEntry describes an attempt to deliver p that ended with receipt or err.
func NewEntry(p submission.Payload, attempt int, receipt submission.Receipt, err error) *Entry {
	e := &Entry{
		Reviewer:   p.Reviewer,
		Presenter:  p.Presenter,
		Total:      p.Total,
		Details:    p.Details,
		Status:     StatusAccepted,
		StatusCode: receipt.StatusCode,
		Attempt:    attempt,
	}
	if err != nil {
		e.Status = StatusFailed
		e.Error = err.Error()
		var rejected *submission.RejectedError
		if errors.As(err, &rejected) {
			e.StatusCode = rejected.StatusCode
		}
	}
	return e
}

// Store persists entries in SQLite.
type Store struct {
	db    *sql.DB
	clock func() time.Time
}

// Open opens (or creates) the journal database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &Store{db: db, clock: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts e, assigning an ID and timestamp when missing.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock()
	}
	if e.ID == "" {
		e.ID = newULID(e.CreatedAt)
	}
	if e.Attempt <= 0 {
		e.Attempt = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, reviewer, presenter, total, details, status, status_code, error, attempt, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Reviewer, e.Presenter, e.Total, e.Details, string(e.Status), e.StatusCode, e.Error, e.Attempt, e.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("journal: record submission: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, reviewer, presenter, total, details, status, status_code, error, attempt, created_at
		FROM submissions ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status string
		if err := rows.Scan(&e.ID, &e.Reviewer, &e.Presenter, &e.Total, &e.Details, &status, &e.StatusCode, &e.Error, &e.Attempt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan submission: %w", err)
		}
		e.Status = Status(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate submissions: %w", err)
	}
	return entries, nil
}

func newULID(at time.Time) string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(at), ulid.Monotonic(entropy, 0)).String()
}
