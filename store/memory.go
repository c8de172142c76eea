package store

import (
	"sort"
	"sync"

	"github.com/amadeus-robot/hubt/core"
)

type memEntry struct {
	key  core.NodeKey
	hash core.Hash
}

// MemoryStore is a sorted-slice OrderedStore held entirely in memory,
// grounded on the teacher pack's neo-go MemoryStore: a simple container
// useful for tests and small trees, not meant for production volumes.
// Mutations keep the slice sorted via binary search, trading O(n)
// inserts for O(log n) Prev/Next/Lookup.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []memEntry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) search(key core.NodeKey) int {
	return sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].key.Compare(key) >= 0
	})
}

func (s *MemoryStore) First() (core.NodeKey, core.Hash, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return core.NodeKey{}, core.Hash{}, false
	}
	e := s.entries[0]
	return e.key, e.hash, true
}

func (s *MemoryStore) Lookup(key core.NodeKey) (core.Hash, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.search(key)
	if i < len(s.entries) && s.entries[i].key.Compare(key) == 0 {
		return s.entries[i].hash, true
	}
	return core.Hash{}, false
}

func (s *MemoryStore) Prev(key core.NodeKey) (core.NodeKey, core.Hash, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.search(key)
	if i == 0 {
		return core.NodeKey{}, core.Hash{}, false
	}
	e := s.entries[i-1]
	return e.key, e.hash, true
}

func (s *MemoryStore) Next(key core.NodeKey) (core.NodeKey, core.Hash, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.search(key)
	if i < len(s.entries) && s.entries[i].key.Compare(key) == 0 {
		i++
	}
	if i >= len(s.entries) {
		return core.NodeKey{}, core.Hash{}, false
	}
	e := s.entries[i]
	return e.key, e.hash, true
}

func (s *MemoryStore) Insert(key core.NodeKey, hash core.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.search(key)
	if i < len(s.entries) && s.entries[i].key.Compare(key) == 0 {
		s.entries[i].hash = hash
		return nil
	}
	s.entries = append(s.entries, memEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = memEntry{key: key, hash: hash}
	return nil
}

func (s *MemoryStore) Delete(key core.NodeKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.search(key)
	if i < len(s.entries) && s.entries[i].key.Compare(key) == 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of stored entries, handy for tests that assert
// on exact node counts (spec.md's S3 scenario).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
