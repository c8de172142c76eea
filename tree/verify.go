package tree

import (
	"github.com/amadeus-robot/hubt/core"
)

// calculateRoot folds nodes onto leaf, starting from the leaf and
// walking toward the root: for each node with direction 0 the sibling
// sits to the left (acc = H(sibling ‖ acc)); direction 1 sits to the
// right (acc = H(acc ‖ sibling)).
func calculateRoot(leaf core.Hash, nodes []ProofNode) core.Hash {
	acc := leaf
	for _, n := range nodes {
		if n.Direction == 0 {
			acc = core.HashInternal(n.Hash, acc)
		} else {
			acc = core.HashInternal(acc, n.Hash)
		}
	}
	return acc
}

// Verify is a pure, stateless check that proof attests (k, v) is
// included under proof.Root. It never panics: a malformed proof simply
// fails to fold to the claimed root and returns false.
func Verify(key, value []byte, proof InclusionProof) bool {
	leaf := core.HashLeaf(key, value)
	return calculateRoot(leaf, proof.Nodes) == proof.Root
}

// VerifyNonExistence is a pure, stateless check that proof attests k is
// absent. For the empty-tree shape (Root == ZeroHash) it accepts iff
// Nodes is empty. Otherwise it requires all three: the proof folds to
// the claimed root; the proven neighbor's path differs from k's; and no
// sibling node sits exactly at the divergence depth between them — the
// ambiguity check that rules out a forged proof whose unclaimed branch
// might actually be populated.
func VerifyNonExistence(key []byte, proof NonExistenceProof) bool {
	target := core.PathFromHash(core.HashKey(key))

	if proof.Root.IsZero() {
		return len(proof.Nodes) == 0
	}

	if calculateRoot(proof.ProvenHash, proof.Nodes) != proof.Root {
		return false
	}
	if proof.ProvenPath == target {
		return false
	}

	divergence := core.DivergenceIndex(proof.ProvenPath, target)
	for _, n := range proof.Nodes {
		if int(n.Len) == divergence {
			return false
		}
	}
	return true
}

// VerifyMismatch is a pure, stateless check that proof attests k is
// present with a hash different from H(k‖claimedValue).
func VerifyMismatch(key, claimedValue []byte, proof MismatchProof) bool {
	claimed := core.HashLeaf(key, claimedValue)
	if proof.ActualHash == claimed {
		return false
	}
	return calculateRoot(proof.ActualHash, proof.Nodes) == proof.Root
}
