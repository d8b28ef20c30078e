package entities

import (
	"fmt"
	"strings"
)

// RelationKind is the title of a relation, as stored in the document.
type RelationKind string

// Relation kinds understood by the editor.
const (
	KindSynonym      RelationKind = "類義語"
	KindAntonym      RelationKind = "対義語"
	KindHypernym     RelationKind = "上位語"
	KindHyponym      RelationKind = "下位語"
	KindRelated      RelationKind = "関連"
	KindReference    RelationKind = "参照"
	KindAbbreviation RelationKind = "省略"
	KindAgreement    RelationKind = "同意"
)

var reciprocalKinds = map[RelationKind]RelationKind{
	KindSynonym:      KindSynonym,
	KindAntonym:      KindAntonym,
	KindHypernym:     KindHyponym,
	KindHyponym:      KindHypernym,
	KindRelated:      KindRelated,
	KindReference:    KindReference,
	KindAbbreviation: KindAbbreviation,
	KindAgreement:    KindAgreement,
}

var kindAliases = map[string]RelationKind{
	"synonym":      KindSynonym,
	"antonym":      KindAntonym,
	"hypernym":     KindHypernym,
	"hyponym":      KindHyponym,
	"related":      KindRelated,
	"reference":    KindReference,
	"abbreviation": KindAbbreviation,
	"agreement":    KindAgreement,
}

// ValidRelationKinds lists the English names accepted by ParseRelationKind.
var ValidRelationKinds = []string{
	"synonym", "antonym", "hypernym", "hyponym",
	"related", "reference", "abbreviation", "agreement",
}

// ReciprocalKind returns the kind a target entry carries back to the source.
// Kinds outside the table reciprocate as KindRelated.
func ReciprocalKind(kind RelationKind) RelationKind {
	if r, ok := reciprocalKinds[kind]; ok {
		return r
	}
	return KindRelated
}

// ParseRelationKind accepts either an English name or a stored title.
func ParseRelationKind(s string) (RelationKind, error) {
	s = strings.TrimSpace(s)
	if kind, ok := kindAliases[strings.ToLower(s)]; ok {
		return kind, nil
	}
	if _, ok := reciprocalKinds[RelationKind(s)]; ok {
		return RelationKind(s), nil
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidRelationKind, s, strings.Join(ValidRelationKinds, ", "))
}

// Relation links an entry to another entry. Entry.Form is a cached display
// copy and must not be used for identity.
type Relation struct {
	Title RelationKind `json:"title"`
	Entry EntryRef     `json:"entry"`
}

// RelationKey identifies a relation for duplicate detection.
type RelationKey struct {
	Kind   RelationKind
	Target EntryID
}

// Key returns the (kind, target id) pair of the relation.
func (r Relation) Key() RelationKey {
	return RelationKey{Kind: r.Title, Target: r.Entry.ID}
}
