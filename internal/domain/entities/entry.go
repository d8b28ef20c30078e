// Package entities holds the dictionary data model: entries, their
// translations, contents, variations and relations, and the dictionary
// document that owns them.
package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// EntryID identifies an entry within a dictionary. Zero means "no id".
type EntryID int64

// SentinelID is handed out when no id can be derived from the dictionary.
// It is a known degraded mode rather than an error.
const SentinelID EntryID = 2147483647

// String returns the decimal form of the id.
func (id EntryID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseEntryID parses a decimal entry id.
func ParseEntryID(s string) (EntryID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q: %w", s, err)
	}
	return EntryID(n), nil
}

// UnmarshalJSON accepts a JSON number, a quoted number or null.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	s := string(data)
	if len(data) >= 2 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parsing entry id: %w", err)
		}
		if s == "" {
			*id = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing entry id %s: %w", data, err)
	}
	*id = EntryID(n)
	return nil
}

// EntryRef is the id/form pair used both as an entry's own identity and as a
// relation target. On a relation the form is a cached copy for display only.
type EntryRef struct {
	ID   EntryID `json:"id"`
	Form string  `json:"form"`
}

// Translation groups translated forms under a part-of-speech label.
type Translation struct {
	Title string   `json:"title"`
	Forms []string `json:"forms"`
}

// Content is a titled free-text section such as usage or etymology.
type Content struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Content titles written by the editor.
const (
	ContentUsage     = "語法"
	ContentEtymology = "語源"
)

// Variation is an alternate surface form of the headword.
type Variation struct {
	Title string `json:"title"`
	Form  string `json:"form"`
}

// Entry is one headword record. Fields the model does not know about are
// kept in Extra and written back unchanged.
type Entry struct {
	Ref          EntryRef
	Translations []Translation
	Tags         []string
	Contents     []Content
	Variations   []Variation
	Relations    []Relation
	Extra        map[string]json.RawMessage
}

// ID returns the entry id.
func (e *Entry) ID() EntryID { return e.Ref.ID }

// Form returns the headword.
func (e *Entry) Form() string { return e.Ref.Form }

// Valid reports whether the entry has both an id and a headword.
// Invalid entries are kept in the document but never indexed.
func (e *Entry) Valid() bool {
	return e.Ref.ID != 0 && e.Ref.Form != ""
}

// TranslationForms returns every translated form in document order.
func (e *Entry) TranslationForms() []string {
	var forms []string
	for _, t := range e.Translations {
		forms = append(forms, t.Forms...)
	}
	return forms
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() Entry {
	c := Entry{
		Ref:        e.Ref,
		Tags:       slices.Clone(e.Tags),
		Contents:   slices.Clone(e.Contents),
		Variations: slices.Clone(e.Variations),
		Relations:  slices.Clone(e.Relations),
	}
	if e.Translations != nil {
		c.Translations = make([]Translation, len(e.Translations))
		for i, t := range e.Translations {
			c.Translations[i] = Translation{Title: t.Title, Forms: slices.Clone(t.Forms)}
		}
	}
	if e.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(e.Extra))
		for k, v := range e.Extra {
			c.Extra[k] = slices.Clone(v)
		}
	}
	return c
}

var entryKeys = []string{"entry", "translations", "tags", "contents", "variations", "relations"}

// MarshalJSON writes the known fields in OTM-JSON order followed by any
// preserved extra fields.
func (e Entry) MarshalJSON() ([]byte, error) {
	var ref any = e.Ref
	if raw, ok := e.Extra["entry"]; ok && e.Ref == (EntryRef{}) {
		ref = raw
	}
	fields := []field{
		{"entry", ref},
		{"translations", nonNil(e.Translations)},
		{"tags", nonNil(e.Tags)},
		{"contents", nonNil(e.Contents)},
		{"variations", nonNil(e.Variations)},
		{"relations", nonNil(e.Relations)},
	}
	return encodeObject(fields, e.Extra)
}

// UnmarshalJSON reads the known fields and keeps the rest in Extra. An
// entry header that cannot be read, such as one with a non-numeric id, is
// kept verbatim in Extra and leaves the entry without an id, so it is never
// indexed but survives a save.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing entry: %w", err)
	}

	*e = Entry{}
	opaque := make(map[string]json.RawMessage)
	targets := map[string]any{
		"entry":        &e.Ref,
		"translations": &e.Translations,
		"tags":         &e.Tags,
		"contents":     &e.Contents,
		"variations":   &e.Variations,
		"relations":    &e.Relations,
	}
	for _, key := range entryKeys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		delete(raw, key)
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(value, targets[key]); err != nil {
			if key == "entry" {
				e.Ref = EntryRef{}
				opaque[key] = value
				continue
			}
			return fmt.Errorf("parsing entry field %q: %w", key, err)
		}
	}

	maps.Copy(raw, opaque)
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
