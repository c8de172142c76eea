package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amadeus-robot/hubt/core"
)

func nk(b byte, length uint16) core.NodeKey {
	var p core.Path
	p[0] = b
	return core.NodeKey{Tag: core.LeafTag, Path: p, Len: length}
}

func TestMemoryStoreInsertLookup(t *testing.T) {
	s := NewMemoryStore()
	k := nk(0x10, 256)
	h := core.Hash{1, 2, 3}
	require.NoError(t, s.Insert(k, h))

	got, ok := s.Lookup(k)
	require.True(t, ok)
	assert.Equal(t, h, got)
}

func TestMemoryStoreFirstEmpty(t *testing.T) {
	s := NewMemoryStore()
	_, _, ok := s.First()
	assert.False(t, ok)
}

func TestMemoryStorePrevNextExcludeSelf(t *testing.T) {
	s := NewMemoryStore()
	a := nk(0x10, 256)
	b := nk(0x20, 256)
	c := nk(0x30, 256)
	require.NoError(t, s.Insert(a, core.Hash{1}))
	require.NoError(t, s.Insert(b, core.Hash{2}))
	require.NoError(t, s.Insert(c, core.Hash{3}))

	prevKey, _, ok := s.Prev(b)
	require.True(t, ok)
	assert.Equal(t, a, prevKey)

	nextKey, _, ok := s.Next(b)
	require.True(t, ok)
	assert.Equal(t, c, nextKey)

	_, _, ok = s.Prev(a)
	assert.False(t, ok)
	_, _, ok = s.Next(c)
	assert.False(t, ok)
}

func TestMemoryStoreDeleteIsNoopOnMissing(t *testing.T) {
	s := NewMemoryStore()
	assert.NoError(t, s.Delete(nk(0x99, 256)))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreInsertOverwrites(t *testing.T) {
	s := NewMemoryStore()
	k := nk(0x10, 256)
	require.NoError(t, s.Insert(k, core.Hash{1}))
	require.NoError(t, s.Insert(k, core.Hash{2}))
	assert.Equal(t, 1, s.Len())
	got, _ := s.Lookup(k)
	assert.Equal(t, core.Hash{2}, got)
}

func TestMemoryStoreOrderedIteration(t *testing.T) {
	s := NewMemoryStore()
	keys := []core.NodeKey{nk(0x30, 256), nk(0x10, 256), nk(0x20, 256)}
	for _, k := range keys {
		require.NoError(t, s.Insert(k, core.Hash{}))
	}
	first, _, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, nk(0x10, 256), first)
}
