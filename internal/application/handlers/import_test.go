package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/mocks"
	"github.com/ersonp/zasdict/internal/domain/services"
)

func newImportHandler(t *testing.T) (*ImportHandler, *services.DictionaryService, *recordingInstaller) {
	t.Helper()
	store := mocks.NewDocumentStore(&entities.Dictionary{Words: []entities.Entry{
		{Ref: entities.EntryRef{ID: 1, Form: "zas"}},
	}})
	dict := services.NewDictionaryService(store, nil, nil, nil)
	_, err := dict.Load(context.Background())
	require.NoError(t, err)

	installer := &recordingInstaller{}
	return NewImportHandler(services.NewImportService(dict), installer), dict, installer
}

func TestImportHandler_Handle_JSONFile(t *testing.T) {
	handler, dict, installer := newImportHandler(t)

	tmpDir := t.TempDir()
	jsonFile := filepath.Join(tmpDir, "words.json")
	content := `[{"form": "kasaz", "title": "verb", "translations": ["speak, talk"]}]`
	require.NoError(t, os.WriteFile(jsonFile, []byte(content), 0644))

	result, err := handler.Handle(context.Background(), jsonFile, ImportOptions{
		OnConflict: services.ConflictSkip,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)
	require.Len(t, installer.installed, 1)
	assert.Equal(t, 2, dict.Snapshot().Len())
}

func TestImportHandler_Handle_CSVFile(t *testing.T) {
	handler, _, _ := newImportHandler(t)

	tmpDir := t.TempDir()
	csvFile := filepath.Join(tmpDir, "words.csv")
	content := "form,title,translations\nzas,noun,language\nkasaz,verb,speak\n"
	require.NoError(t, os.WriteFile(csvFile, []byte(content), 0644))

	result, err := handler.Handle(context.Background(), csvFile, ImportOptions{
		OnConflict: services.ConflictSkip,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
}

func TestImportHandler_Handle_ExplicitFormat(t *testing.T) {
	handler, _, _ := newImportHandler(t)

	// .txt extension but JSON content
	tmpDir := t.TempDir()
	txtFile := filepath.Join(tmpDir, "data.txt")
	require.NoError(t, os.WriteFile(txtFile, []byte(`[{"form": "tekan"}]`), 0644))

	result, err := handler.Handle(context.Background(), txtFile, ImportOptions{Format: "json"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestImportHandler_Handle_UnsupportedFormat(t *testing.T) {
	handler, _, _ := newImportHandler(t)

	tmpDir := t.TempDir()
	xmlFile := filepath.Join(tmpDir, "data.xml")
	require.NoError(t, os.WriteFile(xmlFile, []byte("<data/>"), 0644))

	_, err := handler.Handle(context.Background(), xmlFile, ImportOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestImportHandler_Handle_FileNotFound(t *testing.T) {
	handler, _, _ := newImportHandler(t)

	_, err := handler.Handle(context.Background(), "/nonexistent/file.json", ImportOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening file")
}

func TestImportHandler_Handle_DryRun(t *testing.T) {
	handler, dict, installer := newImportHandler(t)

	tmpDir := t.TempDir()
	jsonFile := filepath.Join(tmpDir, "words.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`[{"form": "tekan"}, {"form": ""}]`), 0644))

	result, err := handler.Handle(context.Background(), jsonFile, ImportOptions{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, result.Errors, 1)
	assert.Empty(t, installer.installed)
	assert.False(t, dict.Dirty(), "dry run commits nothing")
}

func TestImportHandler_Handle_EmptyFile(t *testing.T) {
	handler, _, _ := newImportHandler(t)

	tmpDir := t.TempDir()
	jsonFile := filepath.Join(tmpDir, "empty.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte("[]"), 0644))

	result, err := handler.Handle(context.Background(), jsonFile, ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)
}
