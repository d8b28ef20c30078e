// Package parsers provides parsers for importing entries from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawEntry represents an entry parsed from an external source before
// validation. Translation and tag cells are kept as written; splitting them
// into forms is left to the importer, which knows the dictionary's
// punctuation.
type RawEntry struct {
	Form         string   `json:"form"`
	Title        string   `json:"title,omitempty"`
	Translations []string `json:"translations,omitempty"`
	Usage        string   `json:"usage,omitempty"`
	Etymology    string   `json:"etymology,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	LineNum      int      `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing entries from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawEntry, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
