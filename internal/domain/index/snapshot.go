// Package index builds the search index of a dictionary.
//
// A Snapshot pairs the reverse token index with the id map. Both are built
// in a single pass over one dictionary state and never change afterwards;
// a mutation produces a new Snapshot instead of patching the old one, so a
// Snapshot may be read from any goroutine without locking.
package index

import (
	"slices"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/samber/lo"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/textfold"
)

var generations atomic.Uint64

// Snapshot is an immutable (search index, id map) pair.
//
// Entries are addressed internally by ordinal, their position in the
// snapshot; posting lists are bitmaps of ordinals.
type Snapshot struct {
	generation uint64
	entries    []entities.Entry
	headwords  [][]string
	ordinals   map[entities.EntryID]uint32
	postings   map[string]*roaring.Bitmap
	keys       []string
}

// Build indexes every valid entry of the dictionary. Entries are copied, so
// later changes to the dictionary do not show through the snapshot.
func Build(dict *entities.Dictionary) *Snapshot {
	s := &Snapshot{
		generation: generations.Add(1),
		ordinals:   make(map[entities.EntryID]uint32),
		postings:   make(map[string]*roaring.Bitmap),
	}
	if dict == nil {
		return s
	}

	for i := range dict.Words {
		e := &dict.Words[i]
		if !e.Valid() {
			continue
		}

		ord, seen := s.ordinals[e.ID()]
		if seen {
			// Duplicate ids: the later record wins the id map, tokens of
			// both stay registered.
			s.entries[ord] = e.Clone()
			s.headwords[ord] = headwordForms(e)
		} else {
			ord = uint32(len(s.entries))
			s.ordinals[e.ID()] = ord
			s.entries = append(s.entries, e.Clone())
			s.headwords = append(s.headwords, headwordForms(e))
		}

		for _, token := range Tokens(e) {
			bm, ok := s.postings[token]
			if !ok {
				bm = roaring.New()
				s.postings[token] = bm
			}
			bm.Add(ord)
		}
	}

	for _, bm := range s.postings {
		bm.RunOptimize()
	}
	s.keys = lo.Keys(s.postings)
	slices.Sort(s.keys)
	return s
}

// Tokens returns the lowercased index keys an entry contributes: headword,
// translation forms, variation forms, cached relation forms, tags and the
// words of every content text.
func Tokens(e *entities.Entry) []string {
	tokens := []string{textfold.Lower(e.Form())}
	add := func(s string) {
		if s != "" {
			tokens = append(tokens, textfold.Lower(s))
		}
	}

	for _, f := range e.TranslationForms() {
		add(f)
	}
	for _, v := range e.Variations {
		add(v.Form)
	}
	for _, r := range e.Relations {
		add(r.Entry.Form)
	}
	for _, tag := range e.Tags {
		add(tag)
	}
	for _, c := range e.Contents {
		tokens = append(tokens, textfold.Words(c.Text)...)
	}
	return tokens
}

// headwordForms returns the lowercased headword followed by every non-empty
// translation form.
func headwordForms(e *entities.Entry) []string {
	forms := []string{textfold.Lower(e.Form())}
	for _, f := range e.TranslationForms() {
		if f != "" {
			forms = append(forms, textfold.Lower(f))
		}
	}
	return forms
}

// Generation returns the build counter value of the snapshot. Later builds
// have larger generations.
func (s *Snapshot) Generation() uint64 { return s.generation }

// Len returns the number of indexed entries.
func (s *Snapshot) Len() int { return len(s.entries) }

// KeyCount returns the number of distinct index keys.
func (s *Snapshot) KeyCount() int { return len(s.keys) }

// Lookup returns the entry with the given id. The returned entry shares
// storage with the snapshot and must not be modified.
func (s *Snapshot) Lookup(id entities.EntryID) (entities.Entry, bool) {
	ord, ok := s.ordinals[id]
	if !ok {
		return entities.Entry{}, false
	}
	return s.entries[ord], true
}

// Entries returns the indexed entries in document order. They share storage
// with the snapshot and must not be modified.
func (s *Snapshot) Entries() []entities.Entry {
	return slices.Clip(s.entries)
}

// Keys returns all index keys in byte order.
func (s *Snapshot) Keys() []string {
	return slices.Clone(s.keys)
}

// IDs returns the ids of the entries registered under a key.
func (s *Snapshot) IDs(key string) []entities.EntryID {
	bm, ok := s.postings[key]
	if !ok {
		return nil
	}
	ids := make([]entities.EntryID, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, s.entries[it.Next()].ID())
	}
	return ids
}

// Match returns the union of the posting lists of every key accepted by
// pred.
func (s *Snapshot) Match(pred func(key string) bool) *roaring.Bitmap {
	var matched []*roaring.Bitmap
	for _, key := range s.keys {
		if pred(key) {
			matched = append(matched, s.postings[key])
		}
	}
	if len(matched) == 0 {
		return roaring.New()
	}
	return roaring.FastOr(matched...)
}

// MatchHeadwords returns the ordinals of the entries whose lowercased
// headword and translation forms are accepted by pred. The headword is
// always the first form.
func (s *Snapshot) MatchHeadwords(pred func(forms []string) bool) *roaring.Bitmap {
	bm := roaring.New()
	for i, forms := range s.headwords {
		if pred(forms) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Collect resolves ordinals to entries. Ordinals outside the snapshot are
// dropped. Each entry appears once.
func (s *Snapshot) Collect(ords *roaring.Bitmap) []entities.Entry {
	out := make([]entities.Entry, 0, ords.GetCardinality())
	it := ords.Iterator()
	for it.HasNext() {
		ord := it.Next()
		if int(ord) >= len(s.entries) {
			continue
		}
		out = append(out, s.entries[ord])
	}
	return out
}
