package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSVParser parses entries from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed entries.
// Expected columns: form, title, translations, usage, etymology, tags
func (p *CSVParser) Parse(r io.Reader) ([]RawEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}

	if _, ok := colIndex["form"]; !ok {
		return nil, fmt.Errorf("missing required column: form")
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawEntries.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawEntry, error) {
	var entries []RawEntry
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		entries = append(entries, p.parseRecord(record, colIndex, lineNum))
	}

	return entries, nil
}

// parseRecord converts a CSV record to a RawEntry.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) RawEntry {
	entry := RawEntry{
		Form:      getColumn(record, colIndex, "form"),
		Title:     getColumn(record, colIndex, "title"),
		Usage:     getColumn(record, colIndex, "usage"),
		Etymology: getColumn(record, colIndex, "etymology"),
		LineNum:   lineNum,
	}
	if v := getColumn(record, colIndex, "translations"); v != "" {
		entry.Translations = []string{v}
	}
	if v := getColumn(record, colIndex, "tags"); v != "" {
		entry.Tags = []string{v}
	}
	return entry
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
