// Package cache memoizes expensive per-repository lookups (README bodies,
// topic lists) for the lifetime of a run. Entries are never evicted; at the
// scale of one organization's index this stays within memory, but it is not
// suitable for unbounded key spaces.
package cache

import "sync"

// Memo is a key-addressed memoization cache. Compute runs at most once per
// key per process; later lookups return the first computed value even when a
// fresh compute would differ.
type Memo[V any] struct {
	mu      sync.Mutex
	entries map[string]V
}

// NewMemo returns an empty cache.
func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{entries: make(map[string]V)}
}

// GetOrCompute returns the cached value for key, invoking compute to fill it
// on first use. A compute error is returned without caching, so the lookup
// can be attempted again.
func (m *Memo[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	m.mu.Lock()
	if v, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	m.mu.Lock()
	m.entries[key] = v
	m.mu.Unlock()
	return v, nil
}

// Len returns the number of cached entries.
func (m *Memo[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
