package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/index"
	"github.com/ersonp/zasdict/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle entries whose headword already
// exists.
type ConflictStrategy string

const (
	// ConflictSkip skips entries whose form is already a headword.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictAdd adds them anyway, as homonyms.
	ConflictAdd ConflictStrategy = "add"
)

// ParseConflictStrategy validates a strategy name.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	switch ConflictStrategy(strings.ToLower(s)) {
	case ConflictSkip:
		return ConflictSkip, nil
	case ConflictAdd:
		return ConflictAdd, nil
	default:
		return "", fmt.Errorf("invalid conflict strategy %q (valid: skip, add)", s)
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle existing headwords
}

// ImportError represents an error for a specific entry during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []ImportError
	Snapshot *index.Snapshot // Index after the last added entry, nil if none
}

// ImportService adds externally sourced entries to the dictionary.
type ImportService struct {
	dictionary *DictionaryService
}

// NewImportService creates a new import service.
func NewImportService(dictionary *DictionaryService) *ImportService {
	return &ImportService{
		dictionary: dictionary,
	}
}

// Import validates raw entries and adds the valid ones as one batch.
func (s *ImportService) Import(ctx context.Context, rawEntries []parsers.RawEntry, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	valid, validationErrors := validateEntries(rawEntries)
	result.Errors = validationErrors

	if len(valid) == 0 {
		return result, nil
	}

	punctuations := s.dictionary.Punctuations()
	existing := s.headwords()

	var drafts []entities.Entry
	var lines []int
	for i := range valid {
		raw := &valid[i]
		form := strings.TrimSpace(raw.Form)

		if opts.OnConflict != ConflictAdd && existing[form] {
			result.Skipped++
			continue
		}
		existing[form] = true
		drafts = append(drafts, toEntry(raw, punctuations))
		lines = append(lines, raw.LineNum)
	}

	if opts.DryRun || len(drafts) == 0 {
		result.Imported = len(drafts)
		return result, nil
	}

	batch, err := s.dictionary.AddAll(ctx, drafts)
	result.Imported = len(batch.Added)
	result.Snapshot = batch.Snapshot
	if err != nil {
		if n := len(batch.Added); n < len(drafts) {
			return result, fmt.Errorf("adding %q (line %d): %w", drafts[n].Form(), lines[n], err)
		}
		return result, fmt.Errorf("saving imported entries: %w", err)
	}

	return result, nil
}

func (s *ImportService) headwords() map[string]bool {
	snap := s.dictionary.Snapshot()
	return lo.SliceToMap(snap.Entries(), func(e entities.Entry) (string, bool) {
		return e.Form(), true
	})
}

// validateEntries validates raw entries and returns valid ones with any
// errors.
func validateEntries(rawEntries []parsers.RawEntry) ([]parsers.RawEntry, []ImportError) {
	valid := make([]parsers.RawEntry, 0, len(rawEntries))
	var errors []ImportError

	for i := range rawEntries {
		raw := &rawEntries[i]
		lineNum := raw.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		if strings.TrimSpace(raw.Form) == "" {
			errors = append(errors, ImportError{Line: lineNum, Field: "form", Message: "missing required field: form"})
			continue
		}

		valid = append(valid, *raw)
	}

	return valid, errors
}

// toEntry converts a raw entry to a draft, splitting translation and tag
// cells at the dictionary's punctuation.
func toEntry(raw *parsers.RawEntry, punctuations []string) entities.Entry {
	e := entities.Entry{Ref: entities.EntryRef{Form: strings.TrimSpace(raw.Form)}}

	forms := lo.FlatMap(raw.Translations, func(s string, _ int) []string {
		return SplitForms(s, punctuations)
	})
	if len(forms) > 0 {
		e.Translations = []entities.Translation{{Title: strings.TrimSpace(raw.Title), Forms: forms}}
	}

	e.Tags = lo.Uniq(lo.FlatMap(raw.Tags, func(s string, _ int) []string {
		return SplitForms(s, punctuations)
	}))

	if usage := strings.TrimSpace(raw.Usage); usage != "" {
		e.Contents = append(e.Contents, entities.Content{Title: entities.ContentUsage, Text: usage})
	}
	if etymology := strings.TrimSpace(raw.Etymology); etymology != "" {
		e.Contents = append(e.Contents, entities.Content{Title: entities.ContentEtymology, Text: etymology})
	}

	return e
}
