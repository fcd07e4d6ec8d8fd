// Package blob provides the durable key/value object store that checkpoints,
// the failure ledger, the master index and the results sink are built on.
// The contract is deliberately small: Get and Put, nothing else. Everything
// that needs merging reads, modifies and overwrites whole objects.
package blob

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("blob not found")

// Store is the two-operation durable object store contract.
type Store interface {
	// Get returns the object stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites the object under key atomically: a crash mid-write
	// leaves either the old or the new value, never a corrupt mix.
	Put(ctx context.Context, key string, data []byte) error
}

// PersistenceError marks a failed read or write against the backing store.
// Callers treat it as fatal for the run: progress up to the last successful
// save stays valid and resumable.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure on %q: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
