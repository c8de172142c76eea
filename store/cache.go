package store

import (
	"github.com/VictoriaMetrics/fastcache"

	"github.com/amadeus-robot/hubt/core"
)

// CachedStore wraps another OrderedStore with a read-through fastcache
// layer for Lookup, the single hottest operation during proof
// generation (every ancestor-chain walk re-reads nodes that recent
// batches just wrote). Prev/Next/First/Insert/Delete always go straight
// to the backing store since fastcache has no ordered-iteration
// primitive — only exact-key lookups benefit.
//
// Grounded on the teacher's own fastcache usage (cmd/geth/dbcmd.go) and
// neo-go's documented convention of wrapping a Store with "some memory
// cache layer most of the time".
type CachedStore struct {
	backing OrderedStore
	cache   *fastcache.Cache
}

// NewCachedStore wraps backing with an in-memory cache of the given
// byte size.
func NewCachedStore(backing OrderedStore, cacheBytes int) *CachedStore {
	return &CachedStore{
		backing: backing,
		cache:   fastcache.New(cacheBytes),
	}
}

func (c *CachedStore) Lookup(key core.NodeKey) (core.Hash, bool) {
	enc := key.Encode()
	if v, ok := c.cache.HasGet(nil, enc); ok {
		return core.HashFromBytes(v), true
	}
	hash, ok := c.backing.Lookup(key)
	if ok {
		c.cache.Set(enc, hash.Bytes())
	}
	return hash, ok
}

func (c *CachedStore) First() (core.NodeKey, core.Hash, bool) {
	return c.backing.First()
}

func (c *CachedStore) Prev(key core.NodeKey) (core.NodeKey, core.Hash, bool) {
	return c.backing.Prev(key)
}

func (c *CachedStore) Next(key core.NodeKey) (core.NodeKey, core.Hash, bool) {
	return c.backing.Next(key)
}

func (c *CachedStore) Insert(key core.NodeKey, hash core.Hash) error {
	c.cache.Set(key.Encode(), hash.Bytes())
	return c.backing.Insert(key, hash)
}

func (c *CachedStore) Delete(key core.NodeKey) error {
	c.cache.Del(key.Encode())
	return c.backing.Delete(key)
}

func (c *CachedStore) Close() error {
	c.cache.Reset()
	return c.backing.Close()
}
