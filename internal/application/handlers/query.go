package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

// QueryHandler handles dictionary searches.
type QueryHandler struct {
	session *Session
}

// NewQueryHandler creates a new query handler. The session's worker must be
// running.
func NewQueryHandler(session *Session) *QueryHandler {
	return &QueryHandler{
		session: session,
	}
}

// QueryResult contains the result of a query.
type QueryResult struct {
	Query   entities.Query
	Entries []entities.Entry
	Labels  []string
}

// Handle searches the dictionary. Mode and scope accept the same names as
// ParseSearchMode and ParseSearchScope.
func (h *QueryHandler) Handle(ctx context.Context, mode, scope, keyword string) (*QueryResult, error) {
	m, err := entities.ParseSearchMode(mode)
	if err != nil {
		return nil, err
	}
	sc, err := entities.ParseSearchScope(scope)
	if err != nil {
		return nil, err
	}

	q := entities.Query{Mode: m, Scope: sc, Keyword: keyword}
	r, err := h.session.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("searching dictionary: %w", err)
	}

	return &QueryResult{
		Query:   q,
		Entries: r.Entries,
		Labels:  DisplayLabels(r.Entries),
	}, nil
}
