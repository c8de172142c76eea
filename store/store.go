// Package store defines the ordered key-value abstraction the tree
// engine is built on, and two concrete backends: an in-memory store for
// tests and a disk-backed store for production use.
package store

import (
	"errors"

	"github.com/amadeus-robot/hubt/core"
)

// ErrKeyNotFound names a point-lookup miss. The OrderedStore methods do
// not return it: they report a miss with ok=false, which callers in
// package tree treat as "no such node" rather than an error condition.
var ErrKeyNotFound = errors.New("store: key not found")

// OrderedStore is the persistent backbone of the tree: a keyed map with
// byte-lexicographic ordering over core.NodeKey, mirroring the six
// abstract operations the tree engine is specified against. It is not
// intended to be used directly by callers outside package tree — wrap
// it with CachedStore if read amplification matters.
type OrderedStore interface {
	// First returns the entry with the smallest key, or ok=false if the
	// store is empty.
	First() (key core.NodeKey, hash core.Hash, ok bool)
	// Lookup returns the exact entry at key, if any.
	Lookup(key core.NodeKey) (hash core.Hash, ok bool)
	// Prev returns the entry with the largest key strictly less than
	// key, or ok=false if none exists.
	Prev(key core.NodeKey) (foundKey core.NodeKey, hash core.Hash, ok bool)
	// Next returns the entry with the smallest key strictly greater
	// than key, or ok=false if none exists.
	Next(key core.NodeKey) (foundKey core.NodeKey, hash core.Hash, ok bool)
	// Insert writes or overwrites the entry at key.
	Insert(key core.NodeKey, hash core.Hash) error
	// Delete removes the entry at key. Deleting a missing key is a
	// no-op, matching spec.md's batch-updater edge case for deleting an
	// absent key.
	Delete(key core.NodeKey) error
	// Close releases any resources held by the backend.
	Close() error
}
