package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CountRows opens the SQLite file at dbPath and counts rows in table
func CountRows(t *testing.T, dbPath, table string) int {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return n
}

// QueryStatus returns the stored status for consent id
func QueryStatus(t *testing.T, dbPath, id string) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	var status string
	if err := db.QueryRow("SELECT status FROM consents WHERE id = ?", id).Scan(&status); err != nil {
		t.Fatalf("Failed to read status for %s: %v", id, err)
	}
	return status
}
