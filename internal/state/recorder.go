// Package state persists sync run history in a local SQLite database so
// operators can see when a workbook was last pushed or exported.
package state

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mptcli/cli/internal/errors"
)

// Recorder implements the RunRecorder interface on SQLite.
type Recorder struct {
	db *sql.DB
}

// NewRecorder creates an uninitialised recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Initialize opens the database and creates the schema.
func (r *Recorder) Initialize(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return errors.NewGenericError("failed to open database", err)
	}
	r.db = db

	// Test the database connection to detect corruption early
	if err := r.db.Ping(); err != nil {
		r.db.Close()
		return errors.NewGenericError("database file is corrupted or inaccessible", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		operation TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		details TEXT
	);
	`
	if _, err := r.db.Exec(schema); err != nil {
		r.db.Close()
		if isCorruptionError(err) {
			return errors.NewGenericError("database file is corrupted and cannot be initialized", err)
		}
		return errors.NewGenericError("failed to create database schema", err)
	}
	return nil
}

// isCorruptionError checks if an error indicates database corruption
func isCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database corruption")
}

// RecordRun appends one run to the history.
func (r *Recorder) RecordRun(operation string, timestamp time.Time, status string, details string) error {
	if r.db == nil {
		return errors.NewGenericError("database not initialized", nil)
	}
	if _, err := r.db.Exec(
		"INSERT INTO sync_runs (operation, timestamp, status, details) VALUES (?, ?, ?, ?)",
		operation, timestamp, status, details,
	); err != nil {
		if isCorruptionError(err) {
			return errors.NewGenericError("database file is corrupted", err)
		}
		return errors.NewGenericError("failed to record run", err)
	}
	return nil
}

// LastRun retrieves the timestamp of the most recent run for an operation.
// A zero time means the operation has never run.
func (r *Recorder) LastRun(operation string) (time.Time, error) {
	if r.db == nil {
		return time.Time{}, errors.NewGenericError("database not initialized", nil)
	}

	var timestampStr sql.NullString
	err := r.db.QueryRow(
		"SELECT MAX(timestamp) FROM sync_runs WHERE operation = ?", operation,
	).Scan(&timestampStr)
	if err == sql.ErrNoRows || !timestampStr.Valid {
		return time.Time{}, nil
	}
	if err != nil {
		if isCorruptionError(err) {
			return time.Time{}, errors.NewGenericError("database file is corrupted", err)
		}
		return time.Time{}, errors.NewGenericError("failed to get last run timestamp", err)
	}

	// Try multiple timestamp formats that SQLite might use
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05",
		time.DateTime,
	}

	var timestamp time.Time
	var parseErr error
	for _, format := range formats {
		timestamp, parseErr = time.Parse(format, timestampStr.String)
		if parseErr == nil {
			return timestamp, nil
		}
	}
	return time.Time{}, errors.NewGenericError("failed to parse timestamp", parseErr)
}

// Close closes the database connection
func (r *Recorder) Close() error {
	if r.db == nil {
		return nil
	}
	if err := r.db.Close(); err != nil {
		return errors.NewGenericError("failed to close database", err)
	}
	r.db = nil
	return nil
}
