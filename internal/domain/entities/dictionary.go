package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// DefaultPunctuations splits translation input when the document sets none.
var DefaultPunctuations = []string{","}

// Dictionary is the full ordered collection of entries loaded from a
// document. Top-level fields other than "words" are kept in Extra.
type Dictionary struct {
	Words []Entry
	Extra map[string]json.RawMessage
}

// Find returns the first entry with the given id. The pointer is valid until
// the next structural change of Words.
func (d *Dictionary) Find(id EntryID) (*Entry, bool) {
	i := d.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return &d.Words[i], true
}

func (d *Dictionary) indexOf(id EntryID) int {
	if id == 0 {
		return -1
	}
	return slices.IndexFunc(d.Words, func(e Entry) bool { return e.Ref.ID == id })
}

// Append adds an entry at the end of the collection.
func (d *Dictionary) Append(e Entry) {
	d.Words = append(d.Words, e)
}

// Replace overwrites the entry with the same id in place.
func (d *Dictionary) Replace(e Entry) bool {
	i := d.indexOf(e.Ref.ID)
	if i < 0 {
		return false
	}
	d.Words[i] = e
	return true
}

// Remove deletes every entry carrying the id and reports whether any did.
func (d *Dictionary) Remove(id EntryID) bool {
	n := len(d.Words)
	d.Words = slices.DeleteFunc(d.Words, func(e Entry) bool { return e.Ref.ID == id })
	return len(d.Words) != n
}

// MaxID returns the largest id in use, or false when no entry has an id.
func (d *Dictionary) MaxID() (EntryID, bool) {
	var top EntryID
	found := false
	for i := range d.Words {
		id := d.Words[i].Ref.ID
		if id == 0 {
			continue
		}
		if !found || id > top {
			top = id
			found = true
		}
	}
	return top, found
}

// Punctuations returns the characters that separate translation forms in
// user input, read from the document's zpdicOnline settings.
func (d *Dictionary) Punctuations() []string {
	raw, ok := d.Extra["zpdicOnline"]
	if !ok {
		return DefaultPunctuations
	}
	var settings struct {
		Punctuations []string `json:"punctuations"`
	}
	if err := json.Unmarshal(raw, &settings); err != nil || len(settings.Punctuations) == 0 {
		return DefaultPunctuations
	}
	return settings.Punctuations
}

// MarshalJSON writes "words" followed by the preserved top-level fields.
func (d Dictionary) MarshalJSON() ([]byte, error) {
	return encodeObject([]field{{"words", nonNil(d.Words)}}, d.Extra)
}

// UnmarshalJSON reads "words" and keeps every other field in Extra.
func (d *Dictionary) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing dictionary: %w", err)
	}

	*d = Dictionary{}
	if words, ok := raw["words"]; ok {
		delete(raw, "words")
		if !bytes.Equal(bytes.TrimSpace(words), []byte("null")) {
			if err := json.Unmarshal(words, &d.Words); err != nil {
				return fmt.Errorf("parsing words: %w", err)
			}
		}
	}
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}
