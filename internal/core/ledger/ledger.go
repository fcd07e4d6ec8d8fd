// Package ledger records terminally failed repositories, separately from the
// checkpoint, so they can be retried in isolation later.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vietddude/orglens/internal/core/domain"
	"github.com/vietddude/orglens/internal/infra/blob"
)

// DefaultKey is where the ledger object lives in the blob store.
const DefaultKey = "failed/failed_repos.json"

// Ledger buffers failure records in memory and merges them into the durable
// ledger on Flush. Flush re-reads the persisted records before writing so a
// prior run's failures are never lost to a blind overwrite.
type Ledger struct {
	blobs blob.Store
	key   string

	mu  sync.Mutex
	buf []domain.FailureRecord
}

// New creates a ledger under the given key. An empty key uses DefaultKey.
func New(blobs blob.Store, key string) *Ledger {
	if key == "" {
		key = DefaultKey
	}
	return &Ledger{blobs: blobs, key: key}
}

// Append buffers a failure record for the next Flush.
func (l *Ledger) Append(rec domain.FailureRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = append(l.buf, rec)
}

// Pending returns the number of buffered, not yet flushed records.
func (l *Ledger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buf)
}

// Flush merges buffered records into the durable ledger. The buffer is
// cleared only after a successful write; a failed flush can be retried.
func (l *Ledger) Flush(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buf) == 0 {
		return nil
	}

	existing, err := l.load(ctx)
	if err != nil {
		return err
	}

	// RetryCount is how many records already exist for the repository, so
	// a retry-failed pass produces 1, the next 2, and so on. Recomputed on
	// every flush attempt, so a retried flush stays correct.
	prior := make(map[string]int, len(existing))
	for _, rec := range existing {
		prior[rec.Repository]++
	}
	for i := range l.buf {
		l.buf[i].RetryCount = prior[l.buf[i].Repository]
		prior[l.buf[i].Repository]++
	}

	merged := append(existing, l.buf...)
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode failure ledger: %w", err)
	}
	if err := l.blobs.Put(ctx, l.key, data); err != nil {
		return &blob.PersistenceError{Key: l.key, Err: err}
	}

	l.buf = nil
	return nil
}

// LoadAll returns every persisted failure record.
func (l *Ledger) LoadAll(ctx context.Context) ([]domain.FailureRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

func (l *Ledger) load(ctx context.Context) ([]domain.FailureRecord, error) {
	data, err := l.blobs.Get(ctx, l.key)
	if err == blob.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, &blob.PersistenceError{Key: l.key, Err: err}
	}

	var records []domain.FailureRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode failure ledger: %w", err)
	}
	return records, nil
}
