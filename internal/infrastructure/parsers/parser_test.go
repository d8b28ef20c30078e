package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawEntry
	}{
		{
			name:  "single entry",
			input: `[{"form": "zas", "title": "noun", "translations": ["language, tongue"]}]`,
			expected: []RawEntry{
				{Form: "zas", Title: "noun", Translations: []string{"language, tongue"}, LineNum: 1},
			},
		},
		{
			name:     "empty array",
			input:    "[]",
			expected: []RawEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestJSONParser_Parse_AllFields(t *testing.T) {
	input := `[{
		"form": "kasaz",
		"title": "verb",
		"translations": ["speak", "talk"],
		"usage": "Takes a dative object.",
		"etymology": "From kas + az.",
		"tags": ["basic", "speech"]
	}]`

	parser := &JSONParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 1)

	entry := result[0]
	assert.Equal(t, "kasaz", entry.Form)
	assert.Equal(t, "verb", entry.Title)
	assert.Equal(t, []string{"speak", "talk"}, entry.Translations)
	assert.Equal(t, "Takes a dative object.", entry.Usage)
	assert.Equal(t, "From kas + az.", entry.Etymology)
	assert.Equal(t, []string{"basic", "speech"}, entry.Tags)
	assert.Equal(t, 1, entry.LineNum)
}

func TestJSONParser_Parse_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "not json"},
		{name: "unknown field", input: `[{"form": "zas", "subject": "x"}]`},
		{name: "object instead of array", input: `{"form": "zas"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
		})
	}
}

func TestCSVParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawEntry
	}{
		{
			name:  "form column only",
			input: "form\nzas\n",
			expected: []RawEntry{
				{Form: "zas", LineNum: 2},
			},
		},
		{
			name:     "empty CSV (header only)",
			input:    "form,title\n",
			expected: nil,
		},
		{
			name:  "columns in different order",
			input: "translations,Form,title\n\"language, tongue\",zas,noun\n",
			expected: []RawEntry{
				{Form: "zas", Title: "noun", Translations: []string{"language, tongue"}, LineNum: 2},
			},
		},
		{
			name:  "byte order mark and short rows",
			input: "\ufeffform,title,tags\nzas,noun\n",
			expected: []RawEntry{
				{Form: "zas", Title: "noun", LineNum: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCSVParser_Parse_AllColumns(t *testing.T) {
	input := "form,title,translations,usage,etymology,tags\n" +
		"kasaz,verb,\"speak, talk\",Takes a dative object.,From kas + az.,\"basic, speech\"\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 1)

	entry := result[0]
	assert.Equal(t, "kasaz", entry.Form)
	assert.Equal(t, "verb", entry.Title)
	assert.Equal(t, []string{"speak, talk"}, entry.Translations)
	assert.Equal(t, "Takes a dative object.", entry.Usage)
	assert.Equal(t, "From kas + az.", entry.Etymology)
	assert.Equal(t, []string{"basic, speech"}, entry.Tags)
}

func TestCSVParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{
			name:   "missing required column",
			input:  "title,translations\nnoun,cat\n",
			errMsg: "missing required column: form",
		},
		{
			name:   "empty input",
			input:  "",
			errMsg: "reading CSV header",
		},
		{
			name:   "unterminated quote",
			input:  "form,title\n\"zas,noun\n",
			errMsg: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("json"))
	assert.IsType(t, &CSVParser{}, ForFormat("CSV"))
	assert.Nil(t, ForFormat("unknown"))
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFile("words.json"))
	assert.IsType(t, &CSVParser{}, ForFile("data.CSV"))
	assert.Nil(t, ForFile("file.txt"))
	assert.Nil(t, ForFile("noextension"))
}
