// Package core defines the primitive types shared by the store and tree
// packages: digests, bit paths, and the node-key encoding that gives the
// tree its implicit topology.
package core

import (
	"encoding/hex"

	sha256 "github.com/minio/sha256-simd"
)

// HashSize is the digest width used throughout the tree: SHA-256.
const HashSize = 32

// Hash is a 256-bit digest, either a leaf commitment H(k‖v) or an
// internal node commitment H(left‖right).
type Hash [HashSize]byte

// ZeroHash is the sentinel returned for an empty tree's root and for a
// pruned child that no longer exists in the store.
var ZeroHash = Hash{}

// IsZero reports whether h is the all-zero sentinel.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the digest as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// HashFromBytes copies b into a Hash, panicking if b is not HashSize
// bytes long. Callers control b's provenance (store reads, proof
// decoding); a length mismatch there is a corruption bug, not a user
// error to recover from gracefully.
func HashFromBytes(b []byte) Hash {
	if len(b) != HashSize {
		panic("core: invalid hash length")
	}
	var h Hash
	copy(h[:], b)
	return h
}

// sum256 hashes b with the primitive used across the tree engine.
func sum256(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// HashKey computes H(k), the path a raw key maps to.
func HashKey(key []byte) Hash {
	return sum256(key)
}

// HashLeaf computes the commitment for a key-value pair: H(k‖v). Key
// and value are concatenated with no delimiter or length prefix, so
// distinct pairs hash distinctly only when keys share one fixed length;
// no length is enforced here or by the callers in this module.
func HashLeaf(key, value []byte) Hash {
	buf := make([]byte, 0, len(key)+len(value))
	buf = append(buf, key...)
	buf = append(buf, value...)
	return sum256(buf)
}

// HashInternal computes the commitment for an internal node from its
// left and right child digests: H(left‖right). A zero child digest
// still participates in the hash — callers must not substitute a
// missing child for an omitted one; see getChildHash and
// rehashAndPruneBatch in package tree for how the structural engine
// handles genuinely absent children.
func HashInternal(left, right Hash) Hash {
	buf := make([]byte, 0, 2*HashSize)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return sum256(buf)
}
