package tree

import (
	"github.com/amadeus-robot/hubt/core"
	"github.com/amadeus-robot/hubt/store"
)

// debugVerifyInvariants walks every stored entry and checks that every
// stored internal node has both children populated (one direction of
// I2; a branching node missing from the store is not detected) and I3
// (hash consistency: every internal node's hash equals H(L‖R) of its
// direct children). It is test-only scaffolding,
// per spec.md §9's "implementers should assert invariant I3 at batch
// end in debug builds" — never compiled into the production tree.
func debugVerifyInvariants(s *store.MemoryStore) []string {
	var violations []string

	walk(s, func(key core.NodeKey, hash core.Hash) {
		if key.IsLeaf() {
			return
		}
		l := getChildHash(s, key.Path, int(key.Len), 0)
		r := getChildHash(s, key.Path, int(key.Len), 1)
		if l.IsZero() || r.IsZero() {
			violations = append(violations, "I2 violated: single-child internal node at depth")
			return
		}
		if core.HashInternal(l, r) != hash {
			violations = append(violations, "I3 violated: internal node hash mismatch")
		}
	})
	return violations
}

func walk(s *store.MemoryStore, f func(core.NodeKey, core.Hash)) {
	key, hash, ok := s.First()
	for ok {
		f(key, hash)
		key, hash, ok = s.Next(key)
	}
}
