package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/zasdict/internal/domain/mocks"
	"github.com/ersonp/zasdict/internal/domain/ports"
	"github.com/ersonp/zasdict/internal/infrastructure/config"
	"github.com/ersonp/zasdict/internal/infrastructure/document/jsonfile"
)

func openJSONDocument(path string) DocumentCreator {
	return jsonfile.NewStore(path)
}

func TestInitHandler_Handle_Success(t *testing.T) {
	tmpDir := t.TempDir()

	journal := mocks.NewJournal()
	var journalPath string
	handler := NewInitHandler(openJSONDocument, func(path string) (ports.Journal, error) {
		journalPath = path
		return journal, nil
	})

	result, err := handler.Handle(testContext(t), tmpDir, "")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, result.ConfigPath, "config.yaml")
	assert.Equal(t, filepath.Join(tmpDir, "dictionary.json"), result.DictionaryPath)
	assert.True(t, result.DocumentCreated)
	assert.Equal(t, filepath.Join(tmpDir, ".zasdict", "journal.db"), journalPath)
	assert.True(t, journal.Closed)

	// Verify config and document were created
	assert.True(t, config.Exists(tmpDir))
	dict, err := jsonfile.NewStore(result.DictionaryPath).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dict.Words)
}

func TestInitHandler_Handle_KeepsExistingDocument(t *testing.T) {
	tmpDir := t.TempDir()
	docPath := filepath.Join(tmpDir, "zas.json")
	require.NoError(t, os.WriteFile(docPath, []byte(`{"words": [{"entry": {"id": 1, "form": "zas"}}]}`), 0644))

	handler := NewInitHandler(openJSONDocument, nil)

	result, err := handler.Handle(testContext(t), tmpDir, "zas.json")

	require.NoError(t, err)
	assert.False(t, result.DocumentCreated)
	assert.Equal(t, docPath, result.DictionaryPath)
	assert.Empty(t, result.JournalPath)

	cfg, err := config.Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "zas.json", cfg.Dictionary.Path)
}

func TestInitHandler_Handle_AlreadyInitialized(t *testing.T) {
	tmpDir := t.TempDir()

	// Initialize first
	err := config.WriteDefault(tmpDir)
	require.NoError(t, err)

	handler := NewInitHandler(openJSONDocument, nil)

	_, err = handler.Handle(testContext(t), tmpDir, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}

func TestInitHandler_Handle_JournalError(t *testing.T) {
	tmpDir := t.TempDir()

	handler := NewInitHandler(openJSONDocument, func(string) (ports.Journal, error) {
		return nil, errors.New("disk full")
	})

	_, err := handler.Handle(testContext(t), tmpDir, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening journal")
	assert.Contains(t, err.Error(), "disk full")
}

func TestInitHandler_Handle_SchemaError(t *testing.T) {
	tmpDir := t.TempDir()

	journal := mocks.NewJournal()
	journal.Err = errors.New("locked")
	handler := NewInitHandler(openJSONDocument, func(string) (ports.Journal, error) {
		return journal, nil
	})

	_, err := handler.Handle(testContext(t), tmpDir, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating journal schema")
	assert.True(t, journal.Closed)
}
