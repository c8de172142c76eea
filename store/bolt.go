package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	bolt "go.etcd.io/bbolt"

	"github.com/amadeus-robot/hubt/core"
)

// nodesBucket is the single bbolt bucket all node records live in. HUBT
// has only one record kind, so there is no need for the multi-prefix
// bucket layout the teacher's storage package uses for blockchain data.
var nodesBucket = []byte("nodes")

// ErrDirInUse is returned when another process already holds the
// instance directory lock.
var ErrDirInUse = errors.New("store: data directory already in use")

// BoltStore is a disk-backed OrderedStore over go.etcd.io/bbolt,
// grounded on the teacher's neo-go BoltDBStore (bucket + cursor) and its
// own use of gofrs/flock to guard the instance directory against a
// second concurrent process (spec.md §5 assumes a single writer per
// batch, but says nothing about a second process opening the same
// directory — the lock makes that failure mode explicit instead of
// silently corrupting the store).
type BoltStore struct {
	db   *bolt.DB
	lock *flock.Flock
}

// OpenBoltStore opens (creating if absent) a bbolt-backed store rooted
// at dir, taking an exclusive lock on dir for the lifetime of the
// returned store.
func OpenBoltStore(dir string) (*BoltStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "LOCK"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("store: lock data dir: %w", err)
	}
	if !locked {
		return nil, ErrDirInUse
	}

	db, err := bolt.Open(filepath.Join(dir, "hubt.db"), 0o600, nil)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(nodesBucket)
		return err
	})
	if err != nil {
		db.Close()
		lock.Unlock()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}

	return &BoltStore{db: db, lock: lock}, nil
}

func (s *BoltStore) First() (core.NodeKey, core.Hash, bool) {
	var key core.NodeKey
	var hash core.Hash
	var ok bool
	_ = s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(nodesBucket).Cursor()
		k, v := c.First()
		if k == nil {
			return nil
		}
		decoded, err := core.DecodeNodeKey(k)
		if err != nil {
			return err
		}
		key, hash, ok = decoded, core.HashFromBytes(v), true
		return nil
	})
	return key, hash, ok
}

func (s *BoltStore) Lookup(key core.NodeKey) (core.Hash, bool) {
	var hash core.Hash
	var ok bool
	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(nodesBucket).Get(key.Encode())
		if v == nil {
			return nil
		}
		hash, ok = core.HashFromBytes(v), true
		return nil
	})
	return hash, ok
}

func (s *BoltStore) Prev(key core.NodeKey) (core.NodeKey, core.Hash, bool) {
	var foundKey core.NodeKey
	var hash core.Hash
	var ok bool
	_ = s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(nodesBucket).Cursor()
		k, _ := c.Seek(key.Encode())
		var prevK, prevV []byte
		if k == nil {
			prevK, prevV = c.Last()
		} else {
			prevK, prevV = c.Prev()
		}
		if prevK == nil {
			return nil
		}
		decoded, err := core.DecodeNodeKey(prevK)
		if err != nil {
			return err
		}
		foundKey, hash, ok = decoded, core.HashFromBytes(prevV), true
		return nil
	})
	return foundKey, hash, ok
}

func (s *BoltStore) Next(key core.NodeKey) (core.NodeKey, core.Hash, bool) {
	var foundKey core.NodeKey
	var hash core.Hash
	var ok bool
	_ = s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(nodesBucket).Cursor()
		encoded := key.Encode()
		k, v := c.Seek(encoded)
		if k != nil && string(k) == string(encoded) {
			k, v = c.Next()
		}
		if k == nil {
			return nil
		}
		decoded, err := core.DecodeNodeKey(k)
		if err != nil {
			return err
		}
		foundKey, hash, ok = decoded, core.HashFromBytes(v), true
		return nil
	})
	return foundKey, hash, ok
}

func (s *BoltStore) Insert(key core.NodeKey, hash core.Hash) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(nodesBucket).Put(key.Encode(), hash.Bytes())
	})
}

func (s *BoltStore) Delete(key core.NodeKey) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(nodesBucket).Delete(key.Encode())
	})
}

func (s *BoltStore) Close() error {
	closeErr := s.db.Close()
	unlockErr := s.lock.Unlock()
	if closeErr != nil {
		return closeErr
	}
	return unlockErr
}
