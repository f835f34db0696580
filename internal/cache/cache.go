// Package cache implements the keyed, TTL-staled value cache behind the
// session's read paths. Entries carry the staleness deadline fixed at write
// time; reads report Miss, Fresh, or Stale and never evict. Invalidation
// is always explicit, by exact key or by key prefix.
package cache

import (
	"strings"
	"sync"
	"time"
)

// State classifies the result of a cache read.
type State int

const (
	// Miss means no entry exists for the key.
	Miss State = iota
	// Fresh means the entry exists and its TTL has not elapsed.
	Fresh
	// Stale means the entry exists but its TTL elapsed; callers should
	// serve it and revalidate in the background.
	Stale
)

// String returns a human-readable representation of the read state
func (s State) String() string {
	switch s {
	case Miss:
		return "miss"
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

type entry struct {
	value    any
	deadline time.Time // moment the entry turns stale
}

// Store is an in-memory keyed cache with per-entry staleness deadlines.
// Safe for concurrent use. Values are stored as written; callers own the
// type discipline per key family.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	// now is swappable for tests
	now func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Read returns the value under key and its staleness state. A Miss returns
// a nil value. Stale entries are returned, not evicted.
func (s *Store) Read(key string) (any, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, Miss
	}
	if s.now().After(e.deadline) {
		return e.value, Stale
	}
	return e.value, Fresh
}

// Write stores value under key, stale after ttl from now. A non-positive
// ttl stores an immediately stale entry.
func (s *Store) Write(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: value, deadline: s.now().Add(ttl)}
}

// Invalidate removes the entry under key, if any.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// InvalidatePrefix removes every entry whose key starts with prefix.
func (s *Store) InvalidatePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
}

// Len returns the number of entries currently stored, stale included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Keys returns the stored keys matching prefix, in no particular order.
// An empty prefix returns every key.
func (s *Store) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}
