package tree

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/amadeus-robot/hubt/core"
	"github.com/amadeus-robot/hubt/store"
)

// Tree is the handle callers hold: an explicit binding of a store
// backend to the operations that interpret it as a binary radix tree.
// Re-architected away from the reference implementation's process-wide
// global table so multiple independent trees can coexist and tests can
// substitute an in-memory store, grounded on nomt/db/db.go's DB struct
// (store handle + cached root + sync.RWMutex).
type Tree struct {
	mu    sync.RWMutex
	store store.OrderedStore
	root  core.Hash
}

// New wraps an already-open OrderedStore in a Tree, computing the
// initial root from whatever the store currently contains.
func New(s store.OrderedStore) (*Tree, error) {
	t := &Tree{store: s}
	t.root = computeRoot(s)
	return t, nil
}

// computeRoot returns the stored hash of the smallest-ordered node, or
// core.ZeroHash if the store is empty, per spec.md §4.4.
func computeRoot(s store.OrderedStore) core.Hash {
	_, h, ok := s.First()
	if !ok {
		return core.ZeroHash
	}
	return h
}

// Root returns the tree's current commitment. Safe for concurrent use
// alongside other readers and serialized against BatchUpdate.
func (t *Tree) Root() core.Hash {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// BatchUpdate applies ops atomically from the caller's point of view:
// writes are serialized against other writers and against readers, per
// spec.md §5. Crash atomicity across the underlying store ops is the
// store's responsibility, not the tree's.
func (t *Tree) BatchUpdate(ops []Op) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := batchUpdate(t.store, ops); err != nil {
		return err
	}
	t.root = computeRoot(t.store)
	return nil
}

// Close releases the underlying store.
func (t *Tree) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Close()
}

// InclusionQuery is one (key, value) pair to prove in a batch.
type InclusionQuery struct {
	Key   []byte
	Value []byte
}

// ProveManyInclusion proves a batch of (key, value) pairs concurrently.
// This is additive convenience beyond spec.md — pure fan-out over the
// existing stateless read path, licensed by §5's "reads may run in
// parallel" — mirroring the teacher's own errgroup usage in
// triedb/pathdb/lookup.go for concurrent read-side work.
func (t *Tree) ProveManyInclusion(queries []InclusionQuery) ([]InclusionProof, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	results := make([]InclusionProof, len(queries))
	var g errgroup.Group
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			proof, err := t.proveLocked(q.Key, q.Value)
			if err != nil {
				return err
			}
			results[i] = proof
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
