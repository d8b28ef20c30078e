package entities

import "time"

// JournalAction names a committed entry transition.
type JournalAction string

// Journal actions.
const (
	ActionAdd    JournalAction = "add"
	ActionEdit   JournalAction = "edit"
	ActionDelete JournalAction = "delete"
)

// JournalEntry records one committed add, edit or delete.
type JournalEntry struct {
	ID        int64          `json:"id"`
	SessionID string         `json:"session_id,omitempty"`
	Action    JournalAction  `json:"action"`
	EntryID   EntryID        `json:"entry_id"`
	Form      string         `json:"form"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
