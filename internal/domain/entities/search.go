package entities

import (
	"fmt"
	"strings"
)

// SearchMode is the string-matching strategy of a query.
type SearchMode string

// Search modes.
const (
	ModePartial SearchMode = "partial"
	ModePrefix  SearchMode = "prefix"
	ModeSuffix  SearchMode = "suffix"
	ModeExact   SearchMode = "exact"
)

// SearchScope selects which fields of an entry a query may match.
type SearchScope string

// Search scopes.
const (
	ScopeHeadword SearchScope = "headword"
	ScopeFullText SearchScope = "fulltext"
)

var modeAliases = map[string]SearchMode{
	"partial": ModePartial,
	"prefix":  ModePrefix,
	"suffix":  ModeSuffix,
	"exact":   ModeExact,
	"部分":      ModePartial,
	"前方":      ModePrefix,
	"後方":      ModeSuffix,
	"完全":      ModeExact,
}

var scopeAliases = map[string]SearchScope{
	"headword":             ScopeHeadword,
	"headword-translation": ScopeHeadword,
	"fulltext":             ScopeFullText,
	"full-text":            ScopeFullText,
	"見出し語・訳語":              ScopeHeadword,
	"全文":                   ScopeFullText,
}

// ParseSearchMode accepts an English mode name or the editor's label.
func ParseSearchMode(s string) (SearchMode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (valid: partial, prefix, suffix, exact)", ErrInvalidMode, s)
}

// ParseSearchScope accepts an English scope name or the editor's label.
func ParseSearchScope(s string) (SearchScope, error) {
	if sc, ok := scopeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return sc, nil
	}
	return "", fmt.Errorf("%w: %q (valid: headword, fulltext)", ErrInvalidScope, s)
}

// Query is a (mode, scope, keyword) search request.
type Query struct {
	Mode    SearchMode
	Scope   SearchScope
	Keyword string
}
