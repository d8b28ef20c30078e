// Package jsonfile stores the dictionary as an OTM-JSON document on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

// ErrNoDocument is returned when the document file does not exist.
var ErrNoDocument = errors.New("dictionary document not found")

// Store implements ports.DocumentStore on a single JSON file.
type Store struct {
	path string

	mu      sync.Mutex
	written fileStamp
}

// fileStamp identifies the file contents the store last wrote.
type fileStamp struct {
	size    int64
	modTime time.Time
}

// NewStore creates a store for the document at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Location returns the document path.
func (s *Store) Location() string {
	return s.path
}

// Exists reports whether the document file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and decodes the whole document.
func (s *Store) Load(_ context.Context) (*entities.Dictionary, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoDocument, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	dict := &entities.Dictionary{}
	if err := json.Unmarshal(data, dict); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	return dict, nil
}

// Save encodes the dictionary and replaces the document atomically. The
// document is written to a temporary file in the same directory and renamed
// over the old one.
func (s *Store) Save(_ context.Context, dict *entities.Dictionary) error {
	data, err := Encode(dict)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting document mode: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	if info, err := os.Stat(s.path); err == nil {
		s.written = fileStamp{size: info.Size(), modTime: info.ModTime()}
	}
	return nil
}

// Create writes an empty document unless one already exists.
func (s *Store) Create(ctx context.Context) error {
	if s.Exists() {
		return fmt.Errorf("document already exists: %s", s.path)
	}
	return s.Save(ctx, &entities.Dictionary{Words: []entities.Entry{}})
}

// ownWrite reports whether the file on disk is the one Save last wrote.
func (s *Store) ownWrite() bool {
	info, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written.size == info.Size() && s.written.modTime.Equal(info.ModTime())
}

// Encode renders the dictionary as indented JSON without HTML escaping.
func Encode(dict *entities.Dictionary) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dict); err != nil {
		return nil, fmt.Errorf("encoding dictionary: %w", err)
	}
	return buf.Bytes(), nil
}
