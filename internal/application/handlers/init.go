// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/zasdict/internal/domain/ports"
	"github.com/ersonp/zasdict/internal/infrastructure/config"
)

// DocumentCreator creates an empty dictionary document.
type DocumentCreator interface {
	Exists() bool
	Create(ctx context.Context) error
	Location() string
}

// InitHandler handles workspace initialization.
type InitHandler struct {
	openDocument func(path string) DocumentCreator
	openJournal  func(path string) (ports.Journal, error)
}

// NewInitHandler creates a new init handler. openJournal may be nil to skip
// journal setup.
func NewInitHandler(openDocument func(path string) DocumentCreator, openJournal func(path string) (ports.Journal, error)) *InitHandler {
	return &InitHandler{
		openDocument: openDocument,
		openJournal:  openJournal,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath      string
	DictionaryPath  string
	DocumentCreated bool
	JournalPath     string
}

// Handle writes the default config under basePath, creates an empty
// dictionary document unless one exists, and prepares the journal.
// A non-empty dictionaryPath replaces the default document location.
func (h *InitHandler) Handle(ctx context.Context, basePath, dictionaryPath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("zasdict already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if dictionaryPath != "" {
		cfg.Dictionary.Path = dictionaryPath
		if err := config.Write(basePath, cfg); err != nil {
			return nil, fmt.Errorf("writing config: %w", err)
		}
	}

	result := &InitResult{
		ConfigPath:     config.ConfigFilePath(basePath),
		DictionaryPath: cfg.DictionaryPath(basePath),
	}

	doc := h.openDocument(result.DictionaryPath)
	if !doc.Exists() {
		if err := doc.Create(ctx); err != nil {
			return nil, fmt.Errorf("creating dictionary: %w", err)
		}
		result.DocumentCreated = true
	}

	if cfg.Journal.Enabled && h.openJournal != nil {
		result.JournalPath = cfg.JournalPath(basePath)
		journal, err := h.openJournal(result.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		defer journal.Close()

		if err := journal.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("creating journal schema: %w", err)
		}
	}

	return result, nil
}
