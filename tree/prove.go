package tree

import (
	"golang.org/x/exp/slices"

	"github.com/amadeus-robot/hubt/core"
	"github.com/amadeus-robot/hubt/store"
)

// generateProofNodes collects the ancestor chain of (path, len) via the
// same upward walk the rehash sweep uses, and for each ancestor emits
// the sibling hash needed to fold back up to the root. The sequence is
// ordered leaf-to-root, the natural order of the prev-walk.
func generateProofNodes(s store.OrderedStore, path core.Path, length int) []ProofNode {
	dirty := make(map[core.NodeKey]struct{})
	changesPathFromLCP(s, path, length-1, dirty)

	ancestors := make([]core.NodeKey, 0, len(dirty))
	for k := range dirty {
		// The walk starts at (path, length) and may pick up that exact
		// starting node on its first step (it is "<=" the cursor); only
		// nodes strictly shallower than the proof's own depth are real
		// ancestors worth a sibling lookup.
		if int(k.Len) < length {
			ancestors = append(ancestors, k)
		}
	}
	slices.SortFunc(ancestors, func(a, b core.NodeKey) int {
		return int(b.Len) - int(a.Len)
	})

	nodes := make([]ProofNode, 0, len(ancestors))
	for _, a := range ancestors {
		myDir := core.GetBit(path, int(a.Len))
		siblingDir := 1 - myDir
		sHash := getChildHash(s, a.Path, int(a.Len), siblingDir)
		nodes = append(nodes, ProofNode{Hash: sHash, Direction: siblingDir, Len: a.Len})
	}
	return nodes
}

// Prove builds an inclusion proof for (k, v). Returns ErrNotFound if
// the pair is not present as a leaf.
func (t *Tree) Prove(key, value []byte) (InclusionProof, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.proveLocked(key, value)
}

func (t *Tree) proveLocked(key, value []byte) (InclusionProof, error) {
	path := core.PathFromHash(core.HashKey(key))
	leaf := core.HashLeaf(key, value)

	stored, ok := t.store.Lookup(core.LeafKey(path))
	if !ok || stored != leaf {
		return InclusionProof{}, ErrNotFound
	}
	return InclusionProof{
		Root:  t.root,
		Nodes: generateProofNodes(t.store, path, core.PathBits),
	}, nil
}

// ProveNonExistence builds an exclusion proof for k: a witness that no
// leaf exists at H(k). Returns ErrKeyExists if the key is actually
// present.
func (t *Tree) ProveNonExistence(key []byte) (NonExistenceProof, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	target := core.PathFromHash(core.HashKey(key))

	if _, _, ok := t.store.First(); !ok {
		return NonExistenceProof{Root: core.ZeroHash}, nil
	}

	winnerKey, winnerHash, _ := longestPrefixMatchNeighbor(t.store, target)

	if winnerKey.IsLeaf() && winnerKey.Path == target {
		return NonExistenceProof{}, ErrKeyExists
	}

	return NonExistenceProof{
		Root:       t.root,
		ProvenPath: winnerKey.Path,
		ProvenHash: winnerHash,
		Nodes:      generateProofNodes(t.store, winnerKey.Path, int(winnerKey.Len)),
	}, nil
}

// longestPrefixMatchNeighbor finds the store entry whose path shares
// the longest prefix with target, per spec.md's prove_non_existence:
// compare the predecessor and successor of (target, 256), score each by
// min(lcpLen, node.Len) to suppress padding bias, and prefer the
// predecessor on ties.
func longestPrefixMatchNeighbor(s store.OrderedStore, target core.Path) (core.NodeKey, core.Hash, bool) {
	cursor := core.NodeKey{Tag: core.LeafTag, Path: target, Len: core.PathBits}

	prevKey, prevHash, prevOK := s.Prev(cursor)
	nextKey, nextHash, nextOK := s.Next(cursor)
	if lh, ok := s.Lookup(cursor); ok {
		prevKey, prevHash, prevOK = cursor, lh, ok
	}

	score := func(k core.NodeKey) int {
		_, lcpLen := core.LCP(target, k.Path)
		if lcpLen > int(k.Len) {
			return int(k.Len)
		}
		return lcpLen
	}

	switch {
	case prevOK && nextOK:
		if score(nextKey) > score(prevKey) {
			return nextKey, nextHash, true
		}
		return prevKey, prevHash, true
	case prevOK:
		return prevKey, prevHash, true
	case nextOK:
		return nextKey, nextHash, true
	default:
		return core.NodeKey{}, core.Hash{}, false
	}
}

// ProveMismatch builds a proof that k is present with a value different
// from claimedValue. Returns ErrKeyNotFound if k is absent, or
// ErrValueMatches if the claimed value is actually correct.
func (t *Tree) ProveMismatch(key, claimedValue []byte) (MismatchProof, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	path := core.PathFromHash(core.HashKey(key))
	claimed := core.HashLeaf(key, claimedValue)

	actual, ok := t.store.Lookup(core.LeafKey(path))
	if !ok {
		return MismatchProof{}, ErrKeyNotFound
	}
	if actual == claimed {
		return MismatchProof{}, ErrValueMatches
	}
	return MismatchProof{
		Root:        t.root,
		ActualHash:  actual,
		ClaimedHash: claimed,
		Nodes:       generateProofNodes(t.store, path, core.PathBits),
	}, nil
}
