// Package services contains the dictionary use cases: mutation, relation
// integrity, search and import.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/index"
	"github.com/ersonp/zasdict/internal/domain/ports"
)

// Mutation is the outcome of a committed add, edit or delete. Snapshot is
// the index rebuilt after the change; callers install it before their next
// query.
type Mutation struct {
	Entry       entities.Entry
	Snapshot    *index.Snapshot
	Reciprocals int
	Scrubbed    int
}

// DictionaryService owns the loaded dictionary and runs every entry
// mutation through the relation rules, the index rebuild and the journal.
type DictionaryService struct {
	store     ports.DocumentStore
	journal   ports.Journal
	relations *RelationService
	logger    *slog.Logger
	sessionID string
	autoSave  bool

	mu       sync.Mutex
	dict     *entities.Dictionary
	snapshot *index.Snapshot
	dirty    bool
}

// NewDictionaryService creates a new DictionaryService. The journal may be
// nil, in which case mutations are not recorded.
func NewDictionaryService(store ports.DocumentStore, journal ports.Journal, relations *RelationService, logger *slog.Logger) *DictionaryService {
	if logger == nil {
		logger = slog.Default()
	}
	if relations == nil {
		relations = NewRelationService(logger)
	}
	return &DictionaryService{
		store:     store,
		journal:   journal,
		relations: relations,
		logger:    logger,
		sessionID: uuid.NewString(),
		dict:      &entities.Dictionary{},
		snapshot:  index.Build(nil),
	}
}

// SetAutoSave makes every committed mutation save the document.
func (s *DictionaryService) SetAutoSave(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoSave = on
}

// SessionID returns the id stamped into journal entries of this service.
func (s *DictionaryService) SessionID() string {
	return s.sessionID
}

// Load reads the document and rebuilds the index. Unsaved changes are
// discarded.
func (s *DictionaryService) Load(ctx context.Context) (*index.Snapshot, error) {
	dict, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dictionary from %s: %w", s.store.Location(), err)
	}
	if dict == nil {
		dict = &entities.Dictionary{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dict = dict
	s.dirty = false
	return s.rebuild(), nil
}

// Save writes the document.
func (s *DictionaryService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

// Dirty reports whether there are committed changes not yet saved.
func (s *DictionaryService) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Snapshot returns the index of the current dictionary state.
func (s *DictionaryService) Snapshot() *index.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Punctuations returns the separators of translation input.
func (s *DictionaryService) Punctuations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dict.Punctuations()
}

// Document returns a deep copy of the whole dictionary.
func (s *DictionaryService) Document() *entities.Dictionary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &entities.Dictionary{
		Words: make([]entities.Entry, len(s.dict.Words)),
		Extra: maps.Clone(s.dict.Extra),
	}
	for i := range s.dict.Words {
		out.Words[i] = s.dict.Words[i].Clone()
	}
	return out
}

// Resolve returns the live entry with the given id.
func (s *DictionaryService) Resolve(id entities.EntryID) (entities.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.dict.Find(id)
	if !ok {
		return entities.Entry{}, fmt.Errorf("%w: %s", entities.ErrEntryNotFound, id)
	}
	return e.Clone(), nil
}

// NextID returns the id the next added entry would get.
func (s *DictionaryService) NextID() (entities.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return allocateID(s.dict)
}

// allocateID returns max existing id + 1. An empty dictionary, or one whose
// largest id cannot be incremented, yields SentinelID; if that id is already
// taken no id is available.
func allocateID(dict *entities.Dictionary) (entities.EntryID, error) {
	next := entities.SentinelID
	if top, ok := dict.MaxID(); ok && top < math.MaxInt64 {
		next = top + 1
	}
	if _, taken := dict.Find(next); taken {
		return 0, entities.ErrIDExhausted
	}
	return next, nil
}

// Add commits a new entry built from draft. The draft's id is ignored.
func (s *DictionaryService) Add(ctx context.Context, draft entities.Entry) (*Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, reciprocals, err := s.add(ctx, draft)
	if err != nil {
		return nil, err
	}

	m := &Mutation{
		Entry:       entry.Clone(),
		Snapshot:    s.rebuild(),
		Reciprocals: reciprocals,
	}
	return m, s.commit(ctx)
}

// BatchResult is the outcome of AddAll.
type BatchResult struct {
	Added    []entities.Entry
	Snapshot *index.Snapshot
}

// AddAll commits the drafts in order with a single index rebuild and at
// most one save. It stops at the first draft that cannot be added; the
// drafts before it stay committed and are reported in the result.
func (s *DictionaryService) AddAll(ctx context.Context, drafts []entities.Entry) (*BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &BatchResult{}
	var addErr error
	for _, draft := range drafts {
		entry, _, err := s.add(ctx, draft)
		if err != nil {
			addErr = err
			break
		}
		result.Added = append(result.Added, entry.Clone())
	}

	if len(result.Added) == 0 {
		return result, addErr
	}
	result.Snapshot = s.rebuild()
	if err := s.commit(ctx); err != nil {
		return result, errors.Join(addErr, err)
	}
	return result, addErr
}

// add appends a committed copy of draft and applies its reciprocals. The
// caller holds the lock and rebuilds the index.
func (s *DictionaryService) add(ctx context.Context, draft entities.Entry) (entities.Entry, int, error) {
	entry, err := s.prepare(draft)
	if err != nil {
		return entities.Entry{}, 0, err
	}
	id, err := allocateID(s.dict)
	if err != nil {
		return entities.Entry{}, 0, fmt.Errorf("adding %q: %w", entry.Form(), err)
	}
	entry.Ref.ID = id
	dropSelfRelations(&entry)

	s.dict.Append(entry)
	reciprocals := s.relations.ApplyReciprocal(s.dict, entry)
	s.record(ctx, entities.ActionAdd, entry, map[string]any{
		"reciprocals": reciprocals,
	})
	return entry, reciprocals, nil
}

// Edit overwrites the entry with the given id. The id is kept; extra fields
// of the stored entry survive when the draft carries none. Cached forms on
// relations targeting the entry are refreshed to its new headword.
func (s *DictionaryService) Edit(ctx context.Context, id entities.EntryID, draft entities.Entry) (*Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.dict.Find(id)
	if !ok {
		return nil, fmt.Errorf("editing entry %s: %w", id, entities.ErrEntryNotFound)
	}
	previous := current.Form()

	entry, err := s.prepare(draft)
	if err != nil {
		return nil, err
	}
	entry.Ref.ID = id
	dropSelfRelations(&entry)
	if len(entry.Extra) == 0 {
		entry.Extra = maps.Clone(current.Extra)
	}

	s.dict.Replace(entry)
	reciprocals := s.relations.ApplyReciprocal(s.dict, entry)
	refreshed := s.relations.RefreshCachedForms(s.dict, id, entry.Form())

	m := &Mutation{
		Entry:       entry.Clone(),
		Snapshot:    s.rebuild(),
		Reciprocals: reciprocals,
	}
	details := map[string]any{
		"reciprocals": reciprocals,
		"refreshed":   refreshed,
	}
	if previous != entry.Form() {
		details["previous_form"] = previous
	}
	s.record(ctx, entities.ActionEdit, entry, details)
	return m, s.commit(ctx)
}

// Delete removes the entry with the given id and every relation targeting
// it.
func (s *DictionaryService) Delete(ctx context.Context, id entities.EntryID) (*Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.dict.Find(id)
	if !ok {
		return nil, fmt.Errorf("deleting entry %s: %w", id, entities.ErrEntryNotFound)
	}
	entry := current.Clone()

	_, scrubbed := s.relations.OnDelete(s.dict, id)

	m := &Mutation{
		Entry:    entry,
		Snapshot: s.rebuild(),
		Scrubbed: scrubbed,
	}
	s.record(ctx, entities.ActionDelete, entry, map[string]any{
		"scrubbed": scrubbed,
	})
	return m, s.commit(ctx)
}

// prepare normalizes a draft before it is committed: the form is trimmed,
// empty translation forms and translations are dropped, relations without
// a target are dropped, duplicates are removed and cached forms are taken
// from the live targets.
func (s *DictionaryService) prepare(draft entities.Entry) (entities.Entry, error) {
	entry := draft.Clone()
	entry.Ref.Form = strings.TrimSpace(entry.Ref.Form)
	if entry.Ref.Form == "" {
		return entities.Entry{}, entities.ErrEmptyForm
	}

	entry.Translations = lo.FilterMap(entry.Translations, func(t entities.Translation, _ int) (entities.Translation, bool) {
		t.Forms = lo.Compact(lo.Map(t.Forms, func(f string, _ int) string { return strings.TrimSpace(f) }))
		return t, len(t.Forms) > 0
	})

	entry.Relations = lo.Filter(entry.Relations, func(r entities.Relation, _ int) bool {
		return r.Entry.ID != 0
	})
	entry.Relations = s.relations.Dedupe(entry.Relations)
	for i := range entry.Relations {
		if target, ok := s.dict.Find(entry.Relations[i].Entry.ID); ok {
			entry.Relations[i].Entry.Form = target.Form()
		}
	}
	return entry, nil
}

// dropSelfRelations removes relations from an entry to itself. It runs once
// the entry's id is final.
func dropSelfRelations(entry *entities.Entry) {
	entry.Relations = slices.DeleteFunc(entry.Relations, func(r entities.Relation) bool {
		return r.Entry.ID == entry.Ref.ID
	})
}

func (s *DictionaryService) rebuild() *index.Snapshot {
	s.snapshot = index.Build(s.dict)
	s.logger.Info("index rebuilt",
		"generation", s.snapshot.Generation(),
		"entries", s.snapshot.Len(),
		"keys", s.snapshot.KeyCount())
	return s.snapshot
}

func (s *DictionaryService) commit(ctx context.Context) error {
	s.dirty = true
	if !s.autoSave {
		return nil
	}
	return s.save(ctx)
}

func (s *DictionaryService) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.dict); err != nil {
		return fmt.Errorf("saving dictionary to %s: %w", s.store.Location(), err)
	}
	s.dirty = false
	return nil
}

func (s *DictionaryService) record(ctx context.Context, action entities.JournalAction, e entities.Entry, details map[string]any) {
	if s.journal == nil {
		return
	}
	je := &entities.JournalEntry{
		SessionID: s.sessionID,
		Action:    action,
		EntryID:   e.ID(),
		Form:      e.Form(),
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.journal.Record(ctx, je); err != nil {
		s.logger.Warn("recording journal entry failed", "action", action, "entry_id", e.ID(), "error", err)
	}
}
