package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/zasdict/internal/domain/services"
	"github.com/ersonp/zasdict/internal/infrastructure/parsers"
)

// ImportHandler handles importing entries from files.
type ImportHandler struct {
	service   *services.ImportService
	installer SnapshotInstaller
}

// NewImportHandler creates a new import handler. The installer may be nil.
func NewImportHandler(service *services.ImportService, installer SnapshotInstaller) *ImportHandler {
	return &ImportHandler{
		service:   service,
		installer: installer,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format     string                    // "json", "csv", or "auto"
	DryRun     bool                      // Validate without saving
	OnConflict services.ConflictStrategy // How to handle existing headwords
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []services.ImportError
}

// Handle imports entries from a file.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	rawEntries, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if len(rawEntries) == 0 {
		return &ImportResult{}, nil
	}

	serviceResult, err := h.service.Import(ctx, rawEntries, services.ImportOptions{
		DryRun:     opts.DryRun,
		OnConflict: opts.OnConflict,
	})
	if serviceResult != nil && serviceResult.Snapshot != nil && h.installer != nil {
		h.installer.Install(serviceResult.Snapshot)
	}
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Imported: serviceResult.Imported,
		Skipped:  serviceResult.Skipped,
		Errors:   serviceResult.Errors,
	}, nil
}
