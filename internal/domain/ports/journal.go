package ports

import (
	"context"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

// Journal records committed entry transitions.
type Journal interface {
	// EnsureSchema creates the journal storage if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Record appends one entry to the journal.
	Record(ctx context.Context, entry *entities.JournalEntry) error

	// Recent returns the latest entries, newest first.
	Recent(ctx context.Context, limit int) ([]entities.JournalEntry, error)

	// ForEntry returns the history of one dictionary entry, newest first.
	ForEntry(ctx context.Context, id entities.EntryID) ([]entities.JournalEntry, error)

	// Close releases the journal storage.
	Close() error
}
