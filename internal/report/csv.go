package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sync"

	"github.com/vietddude/orglens/internal/classify"
	"github.com/vietddude/orglens/internal/core/domain"
	"github.com/vietddude/orglens/internal/infra/blob"
)

// DefaultKey is where classification results live in the blob store.
const DefaultKey = "results/classification_results.csv"

// CSVSink buffers classification rows and flushes them into a CSV document
// in the blob store. Flush merges with whatever is already stored so that
// concurrent or interrupted runs never lose earlier rows; rows for the same
// repository are replaced by the newer classification.
type CSVSink struct {
	blobs blob.Store
	key   string

	mu  sync.Mutex
	buf []domain.Classification
}

func NewCSVSink(blobs blob.Store, key string) *CSVSink {
	if key == "" {
		key = DefaultKey
	}
	return &CSVSink{blobs: blobs, key: key}
}

// Write buffers a row until the next Flush.
func (s *CSVSink) Write(row domain.Classification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, row)
}

// Flush merges the buffered rows into the stored CSV and clears the buffer.
// The buffer is kept intact when the write fails so a later flush can retry.
func (s *CSVSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) == 0 {
		return nil
	}

	existing, order, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, row := range s.buf {
		id := row["repository"]
		if _, seen := existing[id]; !seen {
			order = append(order, id)
		}
		existing[id] = row
	}

	var out bytes.Buffer
	w := csv.NewWriter(&out)
	if err := w.Write(classify.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, id := range order {
		row := existing[id]
		record := make([]string, len(classify.Columns))
		for i, col := range classify.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}

	if err := s.blobs.Put(ctx, s.key, out.Bytes()); err != nil {
		return &blob.PersistenceError{Key: s.key, Err: err}
	}
	s.buf = s.buf[:0]
	return nil
}

// load reads the stored CSV into rows keyed by repository, preserving the
// stored row order.
func (s *CSVSink) load(ctx context.Context) (map[string]domain.Classification, []string, error) {
	rows := make(map[string]domain.Classification)
	var order []string

	data, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, blob.ErrNotFound) {
		return rows, order, nil
	}
	if err != nil {
		return nil, nil, &blob.PersistenceError{Key: s.key, Err: err}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse stored csv: %w", err)
	}
	if len(records) == 0 {
		return rows, order, nil
	}

	header := records[0]
	for _, record := range records[1:] {
		row := make(domain.Classification, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		id := row["repository"]
		if id == "" {
			continue
		}
		if _, seen := rows[id]; !seen {
			order = append(order, id)
		}
		rows[id] = row
	}
	return rows, order, nil
}
