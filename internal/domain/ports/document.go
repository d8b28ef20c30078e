// Package ports defines the interfaces the domain needs from the outside
// world.
package ports

import (
	"context"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

// DocumentStore loads and saves the dictionary document.
type DocumentStore interface {
	// Load reads the whole dictionary.
	Load(ctx context.Context) (*entities.Dictionary, error)

	// Save writes the whole dictionary, replacing the previous document.
	Save(ctx context.Context, dict *entities.Dictionary) error

	// Location describes where the document lives, for messages.
	Location() string
}
