// Package store persists named collections. Each collection is one JSON
// document (an array of records) stored and replaced as a whole, so every
// write is all-or-nothing for that collection and last-writer-wins across
// processes.
package store

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("collection not found")

// Store is implemented by every backend.
type Store interface {
	// Load returns the raw JSON of a collection or ErrNotFound.
	Load(ctx context.Context, name string) ([]byte, error)
	// Save replaces the collection.
	Save(ctx context.Context, name string, data []byte) error
	// Delete removes the collection. Deleting a missing collection is not an error.
	Delete(ctx context.Context, name string) error
	Ping(ctx context.Context) error
	Close() error
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("store: empty collection name")
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
			return fmt.Errorf("store: invalid collection name %q", name)
		}
	}
	return nil
}
