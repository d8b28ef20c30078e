package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "version": 2,
  "zpdicOnline": {"punctuations": [",", "/"]},
  "words": [
    {
      "entry": {"id": 1, "form": "kat"},
      "translations": [{"title": "noun", "forms": ["cat", "kitten", "cat"]}],
      "tags": ["animal"],
      "contents": [{"title": "語法", "text": "A small animal."}],
      "variations": [{"title": "old", "form": "katt"}],
      "relations": [{"title": "類義語", "entry": {"id": 2, "form": "mew"}}],
      "pronunciation": "kat"
    },
    {
      "entry": {"id": "2", "form": "mew"}
    }
  ]
}`

func TestDictionary_UnmarshalJSON(t *testing.T) {
	var dict Dictionary
	require.NoError(t, json.Unmarshal([]byte(sampleDocument), &dict))

	require.Len(t, dict.Words, 2)
	kat := dict.Words[0]
	assert.Equal(t, EntryID(1), kat.ID())
	assert.Equal(t, "kat", kat.Form())
	assert.Equal(t, []string{"cat", "kitten", "cat"}, kat.Translations[0].Forms)
	assert.Equal(t, KindSynonym, kat.Relations[0].Title)
	assert.Equal(t, EntryID(2), kat.Relations[0].Entry.ID)
	assert.JSONEq(t, `"kat"`, string(kat.Extra["pronunciation"]))

	assert.Equal(t, EntryID(2), dict.Words[1].ID())
	assert.Contains(t, dict.Extra, "version")
	assert.Equal(t, []string{",", "/"}, dict.Punctuations())
}

func TestDictionary_RoundTripPreservesUnknownFields(t *testing.T) {
	var dict Dictionary
	require.NoError(t, json.Unmarshal([]byte(sampleDocument), &dict))

	data, err := json.Marshal(dict)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.EqualValues(t, 2, generic["version"])
	assert.Contains(t, generic, "zpdicOnline")

	words := generic["words"].([]any)
	first := words[0].(map[string]any)
	assert.Equal(t, "kat", first["pronunciation"])

	// Missing lists are written back as empty arrays.
	second := words[1].(map[string]any)
	assert.Equal(t, []any{}, second["relations"])
	assert.Equal(t, []any{}, second["tags"])
}

func TestEntryID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected EntryID
		wantErr  bool
	}{
		{name: "number", input: `42`, expected: 42},
		{name: "quoted number", input: `"42"`, expected: 42},
		{name: "null", input: `null`, expected: 0},
		{name: "empty string", input: `""`, expected: 0},
		{name: "fractional", input: `1.5`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id EntryID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestDictionary_UnreadableEntryHeaderIsKept(t *testing.T) {
	const document = `{"words":[{"entry":{"id":1,"form":"kat"}},{"entry":{"id":"w-2","form":"sol"},"tags":["sky"]}]}`

	var dict Dictionary
	require.NoError(t, json.Unmarshal([]byte(document), &dict))
	require.Len(t, dict.Words, 2)

	assert.True(t, dict.Words[0].Valid())
	assert.False(t, dict.Words[1].Valid(), "an entry without a readable id is never indexed")
	assert.Equal(t, []string{"sky"}, dict.Words[1].Tags)

	out, err := json.Marshal(&dict)
	require.NoError(t, err)

	var roundTrip map[string]any
	require.NoError(t, json.Unmarshal(out, &roundTrip))
	second := roundTrip["words"].([]any)[1].(map[string]any)
	assert.Equal(t, map[string]any{"id": "w-2", "form": "sol"}, second["entry"])
}

func TestEntry_Clone(t *testing.T) {
	orig := Entry{
		Ref:          EntryRef{ID: 1, Form: "kat"},
		Translations: []Translation{{Title: "noun", Forms: []string{"cat"}}},
		Relations:    []Relation{{Title: KindSynonym, Entry: EntryRef{ID: 2, Form: "mew"}}},
		Extra:        map[string]json.RawMessage{"x": json.RawMessage(`1`)},
	}

	c := orig.Clone()
	c.Translations[0].Forms[0] = "dog"
	c.Relations[0].Entry.Form = "changed"
	c.Extra["x"][0] = '2'

	assert.Equal(t, "cat", orig.Translations[0].Forms[0])
	assert.Equal(t, "mew", orig.Relations[0].Entry.Form)
	assert.Equal(t, json.RawMessage(`1`), orig.Extra["x"])
}

func TestEntry_Valid(t *testing.T) {
	assert.True(t, (&Entry{Ref: EntryRef{ID: 1, Form: "a"}}).Valid())
	assert.False(t, (&Entry{Ref: EntryRef{ID: 0, Form: "a"}}).Valid())
	assert.False(t, (&Entry{Ref: EntryRef{ID: 1}}).Valid())
}

func TestDictionary_Mutations(t *testing.T) {
	dict := &Dictionary{}
	dict.Append(Entry{Ref: EntryRef{ID: 3, Form: "c"}})
	dict.Append(Entry{Ref: EntryRef{ID: 7, Form: "g"}})
	dict.Append(Entry{Ref: EntryRef{Form: "no id"}})

	max, ok := dict.MaxID()
	require.True(t, ok)
	assert.Equal(t, EntryID(7), max)

	assert.True(t, dict.Replace(Entry{Ref: EntryRef{ID: 3, Form: "see"}}))
	e, ok := dict.Find(3)
	require.True(t, ok)
	assert.Equal(t, "see", e.Form())

	assert.True(t, dict.Remove(7))
	assert.False(t, dict.Remove(7))
	_, ok = dict.Find(7)
	assert.False(t, ok)

	_, ok = (&Dictionary{}).MaxID()
	assert.False(t, ok)
	assert.Equal(t, DefaultPunctuations, (&Dictionary{}).Punctuations())
}
