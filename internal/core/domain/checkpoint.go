package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// IDSet is a set of repository identifiers. It marshals as a sorted JSON
// array so checkpoint saves are deterministic and diffable.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// MarshalJSON encodes the set as a sorted array of identifiers.
func (s IDSet) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return json.Marshal(ids)
}

// UnmarshalJSON decodes an array of identifiers into the set.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	*s = set
	return nil
}

// Checkpoint is the durable progress marker for a classification run.
//
// Cursor is an offset into the ordered master index and only moves forward.
// Completed and Failed identify repositories that must not be reprocessed
// on resume (Failed entries are revisited only in retry-failed mode).
type Checkpoint struct {
	Cursor         int                  `json:"current_index"`
	Completed      IDSet                `json:"completed_repos"`
	Failed         map[string]time.Time `json:"failed_repos"`
	TotalProcessed int                  `json:"total_processed"`
	LastRun        time.Time            `json:"last_run"`
}

// NewCheckpoint returns an empty checkpoint positioned at the start of the
// index. A missing persisted checkpoint resolves to this value.
func NewCheckpoint() *Checkpoint {
	return &Checkpoint{
		Completed: make(IDSet),
		Failed:    make(map[string]time.Time),
	}
}
