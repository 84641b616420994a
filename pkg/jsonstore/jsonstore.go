// Package jsonstore implements the entity store: typed CRUD collections
// persisted as one indented JSON document per collection in a versioned
// backing store. The in-process cache is the read source of truth for a
// process lifetime; durable writes are guarded by the backend's
// content-version token.
package jsonstore

import (
	"context"
	"errors"
)

// Record is any entity storable in a collection.
type Record interface {
	EntityID() string
}

// Backend reads and writes whole collection documents. Every read returns a
// content-version token; every write must present the token from the last
// observed state and fails with ErrConflict when it is stale.
type Backend interface {
	// Read returns the document bytes and the current version token.
	Read(ctx context.Context, name string) ([]byte, string, error)
	// Write commits the document and returns the new version token. An
	// empty version creates the document.
	Write(ctx context.Context, name string, data []byte, version string) (string, error)
}

var (
	// ErrNotFound signals the document does not exist in the backend.
	ErrNotFound = errors.New("jsonstore: document not found")
	// ErrConflict signals the presented version token is stale.
	ErrConflict = errors.New("jsonstore: stale version token")
)
