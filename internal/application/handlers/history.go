package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/ports"
)

// HistoryHandler reads the change journal.
type HistoryHandler struct {
	journal ports.Journal
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(journal ports.Journal) *HistoryHandler {
	return &HistoryHandler{journal: journal}
}

// Handle returns journal entries, newest first. A non-zero id limits the
// history to that entry; otherwise the latest limit entries are returned.
func (h *HistoryHandler) Handle(ctx context.Context, id entities.EntryID, limit int) ([]entities.JournalEntry, error) {
	if h.journal == nil {
		return nil, fmt.Errorf("journal is disabled (set journal.enabled in config)")
	}

	if id != 0 {
		entries, err := h.journal.ForEntry(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reading history of entry %d: %w", id, err)
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		return entries, nil
	}

	entries, err := h.journal.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}
