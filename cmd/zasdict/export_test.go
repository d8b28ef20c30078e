package main

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/zasdict/internal/domain/collation"
	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/infrastructure/parsers"
)

func sampleWords() []entities.Entry {
	return []entities.Entry{
		{
			Ref:          entities.EntryRef{ID: 2, Form: "kasaz"},
			Translations: []entities.Translation{{Title: "verb", Forms: []string{"speak", "talk"}}},
			Contents:     []entities.Content{{Title: entities.ContentUsage, Text: "Takes a dative."}},
		},
		{
			Ref: entities.EntryRef{ID: 1, Form: "zas"},
			Translations: []entities.Translation{
				{Title: "noun", Forms: []string{"language"}},
				{Title: "adj", Forms: []string{"linguistic"}},
			},
			Tags: []string{"basic"},
		},
	}
}

func TestFormatJSON(t *testing.T) {
	dict := &entities.Dictionary{Words: sampleWords()}

	var buf bytes.Buffer
	err := formatJSON(&buf, dict)
	require.NoError(t, err)

	// Verify it's valid OTM-JSON
	var parsed entities.Dictionary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed.Words, 2)
	assert.Equal(t, "kasaz", parsed.Words[0].Ref.Form)
	assert.Equal(t, []string{"speak", "talk"}, parsed.Words[0].Translations[0].Forms)
}

func TestFormatJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := formatJSON(&buf, &entities.Dictionary{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"words": []}`, buf.String())
}

func TestFormatCSV(t *testing.T) {
	var buf bytes.Buffer
	err := formatCSV(&buf, sampleWords())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	// Check header
	assert.Equal(t, "id,form,title,translations,usage,etymology,tags", lines[0])

	// Check data rows
	assert.Equal(t, `2,kasaz,verb,"speak, talk",Takes a dative.,,`, lines[1])
	assert.Equal(t, "1,zas,noun,language,,,basic", lines[2])
	assert.Equal(t, "1,zas,adj,linguistic,,,basic", lines[3])
}

func TestFormatCSV_NoTranslations(t *testing.T) {
	var buf bytes.Buffer
	err := formatCSV(&buf, []entities.Entry{{Ref: entities.EntryRef{ID: 5, Form: "tekan"}}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "5,tekan,,,,,", lines[1])
}

func TestFormatCSV_ReadableByImport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatCSV(&buf, sampleWords()[:1]))

	raw, err := (&parsers.CSVParser{}).Parse(&buf)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, "kasaz", raw[0].Form)
	assert.Equal(t, "verb", raw[0].Title)
	assert.Equal(t, []string{"speak, talk"}, raw[0].Translations)
	assert.Equal(t, "Takes a dative.", raw[0].Usage)
}

func TestFormatMarkdown(t *testing.T) {
	var buf bytes.Buffer
	err := formatMarkdown(&buf, sampleWords())
	require.NoError(t, err)

	result := buf.String()
	assert.Contains(t, result, "# Dictionary")
	assert.Contains(t, result, "Total: 2 entries")
	assert.Contains(t, result, "| Headword | Translations | Tags |")
	assert.Contains(t, result, "| kasaz | 【verb】speak, talk |  |")
	assert.Contains(t, result, "| zas | 【noun】language 【adj】linguistic | basic |")
}

func TestFormatDictionary_SortedByCollator(t *testing.T) {
	dict := &entities.Dictionary{Words: sampleWords()}
	slices.Reverse(dict.Words)
	collation.Default().SortEntries(dict.Words)

	var buf bytes.Buffer
	require.NoError(t, formatDictionary(&buf, dict, "markdown"))

	result := buf.String()
	// "k" precedes "z" in the alphabet.
	assert.Less(t, strings.Index(result, "| kasaz"), strings.Index(result, "| zas"))

	err := formatDictionary(&buf, dict, "xml")
	require.Error(t, err)
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "pipe escaped",
			input:    "value|with|pipes",
			expected: "value\\|with\\|pipes",
		},
		{
			name:     "newline replaced",
			input:    "line1\nline2",
			expected: "line1 line2",
		},
		{
			name:     "no change needed",
			input:    "simple text",
			expected: "simple text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := escapeMarkdown(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormatDetails(t *testing.T) {
	assert.Equal(t, "previous_form=zas reciprocals=1", formatDetails(map[string]any{
		"reciprocals":   1,
		"previous_form": "zas",
	}))
	assert.Empty(t, formatDetails(nil))
}
