// Package mocks provides in-memory implementations of the domain ports for
// tests.
package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

// DocumentStore is a mock implementation of ports.DocumentStore. It keeps
// the saved document as JSON so loads never share memory with callers.
type DocumentStore struct {
	mu      sync.Mutex
	data    []byte
	LoadErr error
	SaveErr error
	Saves   int
}

// NewDocumentStore creates a mock store holding dict.
func NewDocumentStore(dict *entities.Dictionary) *DocumentStore {
	m := &DocumentStore{}
	if dict != nil {
		data, err := json.Marshal(dict)
		if err != nil {
			panic(fmt.Sprintf("encoding mock dictionary: %v", err))
		}
		m.data = data
	}
	return m
}

// Load reads the whole dictionary.
func (m *DocumentStore) Load(_ context.Context) (*entities.Dictionary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	dict := &entities.Dictionary{}
	if m.data == nil {
		return dict, nil
	}
	if err := json.Unmarshal(m.data, dict); err != nil {
		return nil, err
	}
	return dict, nil
}

// Save writes the whole dictionary.
func (m *DocumentStore) Save(_ context.Context, dict *entities.Dictionary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := json.Marshal(dict)
	if err != nil {
		return err
	}
	m.data = data
	m.Saves++
	return nil
}

// Location describes the store.
func (m *DocumentStore) Location() string {
	return "memory"
}

// Saved decodes the last saved document.
func (m *DocumentStore) Saved() *entities.Dictionary {
	dict, err := m.Load(context.Background())
	if err != nil {
		return nil
	}
	return dict
}
