package tree

import (
	"golang.org/x/exp/slices"

	"github.com/amadeus-robot/hubt/core"
	"github.com/amadeus-robot/hubt/store"
)

// closestOrNext returns the store entry with the smallest key that is
// greater than or equal to key: an exact Lookup if one exists, else the
// store's strict successor. Grounded on the original Rust's seek_next
// composed with an exact check, generalized into a named helper because
// spec.md's §4.2 gives this exact composition its own name.
func closestOrNext(s store.OrderedStore, key core.NodeKey) (core.NodeKey, core.Hash, bool) {
	if h, ok := s.Lookup(key); ok {
		return key, h, true
	}
	return s.Next(key)
}

// closestOrPrev is closestOrNext's mirror image, used by the
// ancestor-collecting walk below: an exact Lookup if one exists, else
// the store's strict predecessor.
func closestOrPrev(s store.OrderedStore, key core.NodeKey) (core.NodeKey, core.Hash, bool) {
	if h, ok := s.Lookup(key); ok {
		return key, h, true
	}
	return s.Prev(key)
}

// getChildHash returns the hash of the child subtree rooted at
// (parentPath with bit parentLen = dir, parentLen+1). A collapsed
// subtree's representative entry may live deeper than parentLen+1; its
// stored hash is still the correct subtree root by I2+I3, so
// closestOrNext's result is trusted as long as its path agrees with the
// target on the first parentLen+1 bits.
func getChildHash(s store.OrderedStore, parentPath core.Path, parentLen int, dir byte) core.Hash {
	target := core.WithBit(parentPath, parentLen, dir)
	childLen := parentLen + 1
	foundKey, h, ok := closestOrNext(s, core.NodeKey{Tag: core.LeafTag, Path: target, Len: uint16(childLen)})
	if !ok {
		return core.ZeroHash
	}
	if core.PrefixMatch(target, foundKey.Path, childLen) {
		return h
	}
	return core.ZeroHash
}

// ensureNodeExists writes a ZeroHash placeholder at key if nothing is
// stored there yet, and records it as dirty so the rehash sweep
// computes its real value. Mirrors the Rust ensure_node_exists.
func ensureNodeExists(s store.OrderedStore, key core.NodeKey, dirty map[core.NodeKey]struct{}) error {
	if _, ok := s.Lookup(key); ok {
		return nil
	}
	if err := s.Insert(key, core.ZeroHash); err != nil {
		return err
	}
	dirty[key] = struct{}{}
	return nil
}

// ensureSplitPoints discovers whether a newly inserted leaf at path
// needs a new branching ancestor shared with either its nearest
// predecessor or successor leaf (internal nodes in between are stepped
// over), and creates it with a ZeroHash placeholder if so. The
// dirty-set sweep in rehashAndPruneBatch computes its real hash before
// the batch concludes.
func ensureSplitPoints(s store.OrderedStore, path core.Path, dirty map[core.NodeKey]struct{}) error {
	leafKey := core.LeafKey(path)

	prevKey, _, ok := s.Prev(leafKey)
	for ok && !prevKey.IsLeaf() {
		prevKey, _, ok = s.Prev(prevKey)
	}
	if ok {
		lcpPath, lcpLen := core.LCP(path, prevKey.Path)
		if err := ensureNodeExists(s, core.NodeKey{Tag: core.LeafTag, Path: lcpPath, Len: uint16(lcpLen)}, dirty); err != nil {
			return err
		}
	}
	nextKey, _, ok := s.Next(leafKey)
	for ok && !nextKey.IsLeaf() {
		nextKey, _, ok = s.Next(nextKey)
	}
	if ok {
		lcpPath, lcpLen := core.LCP(path, nextKey.Path)
		if err := ensureNodeExists(s, core.NodeKey{Tag: core.LeafTag, Path: lcpPath, Len: uint16(lcpLen)}, dirty); err != nil {
			return err
		}
	}
	return nil
}

// changesPathFromLCP walks upward from (target, len+1) by repeatedly
// taking the store predecessor, accumulating every ancestor of target
// it passes through into dirty, and jumping the cursor toward target's
// LCP with any off-path node it encounters. The walk is iterative, not
// recursive, so it costs no stack depth proportional to tree depth even
// at 256 levels.
func changesPathFromLCP(s store.OrderedStore, target core.Path, length int, dirty map[core.NodeKey]struct{}) {
	cursor := core.NodeKey{Tag: core.LeafTag, Path: target, Len: uint16(length + 1)}

	for {
		k, _, ok := closestOrPrev(s, cursor)
		if !ok {
			return
		}
		isSame := k.Compare(cursor) == 0

		if core.PrefixMatch(target, k.Path, int(k.Len)) {
			dirty[k] = struct{}{}
			if k.Len == 0 {
				return
			}
			cursor = core.NodeKey{Tag: core.LeafTag, Path: k.Path, Len: k.Len - 1}
			continue
		}

		lcpPath, lcpLen := core.LCP(target, k.Path)
		jump := core.NodeKey{Tag: core.LeafTag, Path: lcpPath, Len: uint16(lcpLen + 1)}

		if jump.Less(k) {
			cursor = jump
			continue
		}
		if isSame {
			if k.Len == 0 {
				return
			}
			cursor = core.NodeKey{Tag: core.LeafTag, Path: k.Path, Len: k.Len - 1}
			continue
		}
		cursor = k
	}
}

// collectDirtyAncestors runs changesPathFromLCP for every prepared
// leaf path, accumulating the union of ancestors that may need
// rehashing.
func collectDirtyAncestors(s store.OrderedStore, paths []core.Path, dirty map[core.NodeKey]struct{}) {
	for _, p := range paths {
		changesPathFromLCP(s, p, 255, dirty)
	}
}

// rehashAndPruneBatch recomputes every dirty internal node bottom-up
// (deepest first, so children are always finalized before their
// parent) and removes any node that no longer branches, preserving I2
// (sparse branching) and I3 (hash consistency). Leaves never need
// rehashing — their hash was fixed at insertion time — so they are
// skipped even if swept in by the ancestor walk.
func rehashAndPruneBatch(s store.OrderedStore, dirty map[core.NodeKey]struct{}) error {
	nodes := make([]core.NodeKey, 0, len(dirty))
	for k := range dirty {
		nodes = append(nodes, k)
	}
	slices.SortFunc(nodes, func(a, b core.NodeKey) int {
		return int(b.Len) - int(a.Len)
	})

	for _, node := range nodes {
		if node.IsLeaf() {
			continue
		}
		l := getChildHash(s, node.Path, int(node.Len), 0)
		r := getChildHash(s, node.Path, int(node.Len), 1)

		if !l.IsZero() && !r.IsZero() {
			if err := s.Insert(node, core.HashInternal(l, r)); err != nil {
				return err
			}
		} else {
			if err := s.Delete(node); err != nil {
				return err
			}
		}
	}
	return nil
}
