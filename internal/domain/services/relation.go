package services

import (
	"log/slog"
	"slices"

	"github.com/samber/lo"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

// RelationService keeps relations between entries consistent: declared
// links get reciprocal back-links, duplicates are removed and deleted
// entries leave no dangling links behind.
type RelationService struct {
	logger *slog.Logger
}

// NewRelationService creates a new RelationService.
func NewRelationService(logger *slog.Logger) *RelationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RelationService{logger: logger}
}

// ApplyReciprocal adds, on every entry the source links to, the reciprocal
// relation back to the source. A back-link is added only when the target
// has no relation with the same (kind, target id) yet, so applying the same
// source twice changes nothing the second time. Targets missing from the
// dictionary and relations to the source itself are skipped. It returns the number of back-links added.
func (s *RelationService) ApplyReciprocal(dict *entities.Dictionary, source entities.Entry) int {
	back := entities.EntryRef{ID: source.ID(), Form: source.Form()}
	added := 0

	for _, rel := range slices.Clone(source.Relations) {
		if rel.Entry.ID == source.ID() {
			continue
		}
		target, ok := dict.Find(rel.Entry.ID)
		if !ok {
			s.logger.Debug("skipping reciprocal for missing target",
				"source_id", source.ID(), "target_id", rel.Entry.ID, "kind", rel.Title)
			continue
		}

		reciprocal := entities.Relation{
			Title: entities.ReciprocalKind(rel.Title),
			Entry: back,
		}
		if hasRelation(target.Relations, reciprocal.Key()) {
			continue
		}
		target.Relations = append(target.Relations, reciprocal)
		added++
	}

	return added
}

// OnDelete removes the entry with the given id and drops every relation
// elsewhere that targets it. Reciprocals of the dropped relations are not
// followed further. It reports whether the entry existed and how many
// relations were dropped.
func (s *RelationService) OnDelete(dict *entities.Dictionary, id entities.EntryID) (bool, int) {
	removed := dict.Remove(id)

	scrubbed := 0
	for i := range dict.Words {
		e := &dict.Words[i]
		n := len(e.Relations)
		e.Relations = slices.DeleteFunc(e.Relations, func(r entities.Relation) bool {
			return r.Entry.ID == id
		})
		scrubbed += n - len(e.Relations)
	}

	return removed, scrubbed
}

// Dedupe removes relations repeating an earlier (kind, target id) pair,
// keeping the first occurrence.
func (s *RelationService) Dedupe(relations []entities.Relation) []entities.Relation {
	if len(relations) == 0 {
		return relations
	}
	return lo.UniqBy(relations, func(r entities.Relation) entities.RelationKey {
		return r.Key()
	})
}

// RefreshCachedForms rewrites the cached form of every relation targeting
// id. It returns the number of relations changed.
func (s *RelationService) RefreshCachedForms(dict *entities.Dictionary, id entities.EntryID, form string) int {
	changed := 0
	for i := range dict.Words {
		rels := dict.Words[i].Relations
		for j := range rels {
			if rels[j].Entry.ID == id && rels[j].Entry.Form != form {
				rels[j].Entry.Form = form
				changed++
			}
		}
	}
	return changed
}

func hasRelation(relations []entities.Relation, key entities.RelationKey) bool {
	return slices.ContainsFunc(relations, func(r entities.Relation) bool {
		return r.Key() == key
	})
}
