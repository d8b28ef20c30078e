package mocks

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

// Journal is a mock implementation of ports.Journal.
type Journal struct {
	mu      sync.Mutex
	Entries []entities.JournalEntry
	Err     error
	Closed  bool
}

// NewJournal creates a new mock Journal.
func NewJournal() *Journal {
	return &Journal{}
}

// EnsureSchema creates the journal schema if it doesn't exist.
func (m *Journal) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Record appends one entry to the journal.
func (m *Journal) Record(_ context.Context, entry *entities.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	entry.ID = int64(len(m.Entries) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.Entries = append(m.Entries, *entry)
	return nil
}

// Recent returns the latest entries, newest first.
func (m *Journal) Recent(_ context.Context, limit int) ([]entities.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	result := slices.Clone(m.Entries)
	slices.Reverse(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ForEntry returns the history of one dictionary entry, newest first.
func (m *Journal) ForEntry(_ context.Context, id entities.EntryID) ([]entities.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.JournalEntry
	for i := len(m.Entries) - 1; i >= 0; i-- {
		if m.Entries[i].EntryID == id {
			result = append(result, m.Entries[i])
		}
	}
	return result, nil
}

// Actions returns the recorded actions in order, for assertions.
func (m *Journal) Actions() []entities.JournalAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	actions := make([]entities.JournalAction, len(m.Entries))
	for i, e := range m.Entries {
		actions[i] = e.Action
	}
	return actions
}

// Close closes the journal.
func (m *Journal) Close() error {
	m.Closed = true
	return nil
}
