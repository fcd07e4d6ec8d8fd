// Package checkpoint persists run progress so an interrupted classification
// resumes exactly where it stopped. The checkpoint is rebuilt fully in
// memory and written as one atomic overwrite; callers always save a superset
// of previously recorded progress.
package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vietddude/orglens/internal/core/domain"
	"github.com/vietddude/orglens/internal/infra/blob"
)

// DefaultKey is where the checkpoint object lives in the blob store.
const DefaultKey = "checkpoints/progress.json"

// Store loads and saves run progress.
type Store interface {
	// Load returns the persisted checkpoint, or a fresh empty one when none
	// has been saved yet. A missing checkpoint is not an error.
	Load(ctx context.Context) (*domain.Checkpoint, error)

	// Save overwrites the persisted checkpoint. Failures surface as
	// *blob.PersistenceError and are fatal for the run.
	Save(ctx context.Context, cp *domain.Checkpoint) error
}

// BlobStore implements Store on top of the durable blob store.
type BlobStore struct {
	blobs blob.Store
	key   string
	now   func() time.Time
}

// NewBlobStore creates a checkpoint store under the given key. An empty key
// uses DefaultKey.
func NewBlobStore(blobs blob.Store, key string) *BlobStore {
	if key == "" {
		key = DefaultKey
	}
	return &BlobStore{blobs: blobs, key: key, now: time.Now}
}

// Load returns the persisted checkpoint or a fresh one.
func (s *BlobStore) Load(ctx context.Context) (*domain.Checkpoint, error) {
	data, err := s.blobs.Get(ctx, s.key)
	if err == blob.ErrNotFound {
		return domain.NewCheckpoint(), nil
	}
	if err != nil {
		return nil, &blob.PersistenceError{Key: s.key, Err: err}
	}

	cp := domain.NewCheckpoint()
	if err := json.Unmarshal(data, cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if cp.Completed == nil {
		cp.Completed = make(domain.IDSet)
	}
	if cp.Failed == nil {
		cp.Failed = make(map[string]time.Time)
	}
	return cp, nil
}

// Save stamps LastRun and overwrites the persisted checkpoint.
func (s *BlobStore) Save(ctx context.Context, cp *domain.Checkpoint) error {
	cp.LastRun = s.now()

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := s.blobs.Put(ctx, s.key, data); err != nil {
		return &blob.PersistenceError{Key: s.key, Err: err}
	}
	return nil
}
