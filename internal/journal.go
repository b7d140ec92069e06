package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultRecordStatus is the status of a consent that has never been checked
const DefaultRecordStatus = "PENDING"

const journalSchema = `
CREATE TABLE IF NOT EXISTS consents (
	id           TEXT PRIMARY KEY,
	approval_url TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'PENDING',
	checks       INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS consents_created_at ON consents (created_at);`

// ConsentRecord is one journaled consent flow
type ConsentRecord struct {
	ID          string    `json:"id" yaml:"id"`
	ApprovalURL string    `json:"approval_url,omitempty" yaml:"approval_url,omitempty"`
	Status      string    `json:"status" yaml:"status"`
	Checks      int       `json:"checks" yaml:"checks"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Session converts the record back into a client session
func (r *ConsentRecord) Session() Session {
	if r.Checks > 0 {
		return Checked{ID: r.ID, ApprovalURL: r.ApprovalURL, Status: r.Status}
	}
	return Initiated{ID: r.ID, ApprovalURL: r.ApprovalURL}
}

// Journal keeps a local SQLite record of initiated consents
type Journal struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenJournal opens (creating if needed) the journal at path.
// ":memory:" gives a private in-memory journal.
func OpenJournal(path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, &StoreError{Op: "open", Path: path, Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Path: path, Err: err}
	}
	// one connection so ":memory:" is a single database and writes serialize
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &StoreError{Op: "open", Path: path, Err: fmt.Errorf("ping: %w", err)}
	}
	if _, err := db.Exec(journalSchema); err != nil {
		_ = db.Close()
		return nil, &StoreError{Op: "migrate", Path: path, Err: err}
	}

	LogDebug("Opened consent journal at %s", path)
	return &Journal{db: db, path: path, now: time.Now}, nil
}

// Path returns the journal location
func (j *Journal) Path() string {
	return j.path
}

// Close closes the underlying database
func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordInitiated stores a newly initiated consent. Re-initiating an
// existing id refreshes its URL, resets its status and makes it the latest
// record again.
func (j *Journal) RecordInitiated(ctx context.Context, id, approvalURL string) error {
	now := j.now().UnixMilli()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO consents (id, approval_url, status, checks, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			approval_url = excluded.approval_url,
			status = excluded.status,
			checks = 0,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		id, approvalURL, DefaultRecordStatus, now, now)
	if err != nil {
		return &StoreError{Op: "write", Path: j.path, Err: err}
	}
	return nil
}

// RecordStatus stores the latest status of consent id, creating the record
// if the consent was started elsewhere.
func (j *Journal) RecordStatus(ctx context.Context, id, status string) error {
	now := j.now().UnixMilli()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO consents (id, approval_url, status, checks, created_at, updated_at)
		VALUES (?, '', ?, 1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			checks = consents.checks + 1,
			updated_at = excluded.updated_at`,
		id, status, now, now)
	if err != nil {
		return &StoreError{Op: "write", Path: j.path, Err: err}
	}
	return nil
}

// Get returns the record for id or ErrRecordNotFound
func (j *Journal) Get(ctx context.Context, id string) (*ConsentRecord, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, approval_url, status, checks, created_at, updated_at
		FROM consents WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "read", Path: j.path, Err: err}
	}
	return rec, nil
}

// Latest returns the most recently initiated record or ErrRecordNotFound
func (j *Journal) Latest(ctx context.Context) (*ConsentRecord, error) {
	records, err := j.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}
	return records[0], nil
}

// List returns records newest first. limit <= 0 returns all of them.
func (j *Journal) List(ctx context.Context, limit int) ([]*ConsentRecord, error) {
	query := `
		SELECT id, approval_url, status, checks, created_at, updated_at
		FROM consents ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StoreError{Op: "read", Path: j.path, Err: fmt.Errorf("query failed: %w", err)}
	}
	defer rows.Close()

	var records []*ConsentRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &StoreError{Op: "read", Path: j.path, Err: fmt.Errorf("scan failed: %w", err)}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "read", Path: j.path, Err: fmt.Errorf("rows iteration error: %w", err)}
	}
	return records, nil
}

// Count returns the number of journaled consents
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM consents").Scan(&n); err != nil {
		return 0, &StoreError{Op: "read", Path: j.path, Err: err}
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*ConsentRecord, error) {
	var rec ConsentRecord
	var created, updated int64
	if err := row.Scan(&rec.ID, &rec.ApprovalURL, &rec.Status, &rec.Checks, &created, &updated); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.UnixMilli(created).UTC()
	rec.UpdatedAt = time.UnixMilli(updated).UTC()
	return &rec, nil
}
