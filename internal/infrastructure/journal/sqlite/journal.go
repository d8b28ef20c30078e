// Package sqlite provides a SQLite implementation of the Journal interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/zasdict/internal/domain/entities"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Journal implements ports.Journal using SQLite.
type Journal struct {
	db   *sql.DB
	path string
}

// Open opens the journal database at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New("journal path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Journal{
		db:   db,
		path: path,
	}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (j *Journal) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS journal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT,
		action TEXT NOT NULL,
		entry_id INTEGER NOT NULL,
		form TEXT NOT NULL,
		details TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_journal_entry ON journal(entry_id);
	CREATE INDEX IF NOT EXISTS idx_journal_action ON journal(action);
	`

	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Record appends one entry and fills in its id and timestamp.
func (j *Journal) Record(ctx context.Context, entry *entities.JournalEntry) error {
	var detailsJSON sql.NullString
	if len(entry.Details) > 0 {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var sessionID sql.NullString
	if entry.SessionID != "" {
		sessionID = sql.NullString{String: entry.SessionID, Valid: true}
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = timeNow().UTC()
	}

	query := `INSERT INTO journal (session_id, action, entry_id, form, details, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := j.db.ExecContext(ctx, query,
		sessionID, string(entry.Action), int64(entry.EntryID), entry.Form, detailsJSON, createdAt)
	if err != nil {
		return fmt.Errorf("recording %s of entry %d: %w", entry.Action, entry.EntryID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading journal id: %w", err)
	}
	entry.ID = id
	entry.CreatedAt = createdAt
	return nil
}

// Recent returns the latest entries, newest first. A limit of zero or less
// returns everything.
func (j *Journal) Recent(ctx context.Context, limit int) ([]entities.JournalEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, session_id, action, entry_id, form, details, created_at
		FROM journal
		ORDER BY id DESC
		LIMIT ?
	`
	return j.queryJournal(ctx, query, limit)
}

// ForEntry returns the history of one dictionary entry, newest first.
func (j *Journal) ForEntry(ctx context.Context, id entities.EntryID) ([]entities.JournalEntry, error) {
	query := `
		SELECT id, session_id, action, entry_id, form, details, created_at
		FROM journal
		WHERE entry_id = ?
		ORDER BY id DESC
	`
	return j.queryJournal(ctx, query, int64(id))
}

// queryJournal is a helper to execute journal queries.
func (j *Journal) queryJournal(ctx context.Context, query string, args ...any) ([]entities.JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []entities.JournalEntry
	for rows.Next() {
		var (
			entry     entities.JournalEntry
			sessionID sql.NullString
			details   sql.NullString
			action    string
			entryID   int64
		)
		if err := rows.Scan(
			&entry.ID,
			&sessionID,
			&action,
			&entryID,
			&entry.Form,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}

		entry.SessionID = sessionID.String
		entry.Action = entities.JournalAction(action)
		entry.EntryID = entities.EntryID(entryID)

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
