package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/index"
	"github.com/ersonp/zasdict/internal/domain/services"
)

// SnapshotInstaller receives the index rebuilt after a mutation.
type SnapshotInstaller interface {
	Install(snap *index.Snapshot)
}

// EntryHandler handles entry mutations and lookups at the application layer.
type EntryHandler struct {
	dictionary *services.DictionaryService
	installer  SnapshotInstaller
}

// NewEntryHandler creates a new EntryHandler. The installer may be nil.
func NewEntryHandler(dictionary *services.DictionaryService, installer SnapshotInstaller) *EntryHandler {
	return &EntryHandler{
		dictionary: dictionary,
		installer:  installer,
	}
}

// EntryDetail is an entry with its rendered detail text.
type EntryDetail struct {
	Entry  entities.Entry `json:"entry"`
	Detail string         `json:"detail"`
}

// RelationInfo describes one relation of an entry.
type RelationInfo struct {
	Kind       entities.RelationKind `json:"kind"`
	TargetID   entities.EntryID      `json:"target_id"`
	CachedForm string                `json:"cached_form"`
	LiveForm   string                `json:"live_form,omitempty"`
	Dangling   bool                  `json:"dangling"`
}

// Form returns the live form, or the cached one for a dangling target.
func (r RelationInfo) Form() string {
	if r.Dangling {
		return r.CachedForm
	}
	return r.LiveForm
}

// HandleAdd commits a new entry from command-line input.
func (h *EntryHandler) HandleAdd(ctx context.Context, in DraftInput) (*services.Mutation, error) {
	draft, err := ApplyDraft(entities.Entry{}, in, h.dictionary.Punctuations())
	if err != nil {
		return nil, err
	}
	m, err := h.dictionary.Add(ctx, draft)
	h.install(m)
	return m, err
}

// HandleEdit applies command-line input to an existing entry.
func (h *EntryHandler) HandleEdit(ctx context.Context, id entities.EntryID, in DraftInput) (*services.Mutation, error) {
	current, err := h.dictionary.Resolve(id)
	if err != nil {
		return nil, err
	}
	draft, err := ApplyDraft(current, in, h.dictionary.Punctuations())
	if err != nil {
		return nil, err
	}
	m, err := h.dictionary.Edit(ctx, id, draft)
	h.install(m)
	return m, err
}

// HandleDelete removes an entry and the relations pointing at it.
func (h *EntryHandler) HandleDelete(ctx context.Context, id entities.EntryID) (*services.Mutation, error) {
	m, err := h.dictionary.Delete(ctx, id)
	h.install(m)
	return m, err
}

// HandleShow returns an entry with its detail text.
func (h *EntryHandler) HandleShow(_ context.Context, id entities.EntryID) (*EntryDetail, error) {
	e, err := h.dictionary.Resolve(id)
	if err != nil {
		return nil, err
	}
	return &EntryDetail{
		Entry:  e,
		Detail: FormatDetail(e, h.liveForm),
	}, nil
}

// HandleRelations resolves the live form of every relation of an entry.
func (h *EntryHandler) HandleRelations(_ context.Context, id entities.EntryID) ([]RelationInfo, error) {
	e, err := h.dictionary.Resolve(id)
	if err != nil {
		return nil, fmt.Errorf("resolving entry: %w", err)
	}

	infos := make([]RelationInfo, 0, len(e.Relations))
	for _, r := range e.Relations {
		info := RelationInfo{
			Kind:       r.Title,
			TargetID:   r.Entry.ID,
			CachedForm: r.Entry.Form,
		}
		if live, ok := h.liveForm(r.Entry.ID); ok {
			info.LiveForm = live
		} else {
			info.Dangling = true
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (h *EntryHandler) liveForm(id entities.EntryID) (string, bool) {
	target, err := h.dictionary.Resolve(id)
	if err != nil {
		return "", false
	}
	return target.Form(), true
}

func (h *EntryHandler) install(m *services.Mutation) {
	if m != nil && h.installer != nil {
		h.installer.Install(m.Snapshot)
	}
}
