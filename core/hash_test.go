package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroHashIsZero(t *testing.T) {
	assert.True(t, ZeroHash.IsZero())
	assert.True(t, HashFromBytes(make([]byte, HashSize)).IsZero())
	assert.False(t, HashLeaf([]byte("a"), []byte("b")).IsZero())
}

func TestHashLeafDeterministic(t *testing.T) {
	k := []byte("k")
	v := []byte("v")
	h1 := HashLeaf(k, v)
	h2 := HashLeaf(k, v)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, HashLeaf(k, []byte("v2")))
}

func TestHashInternalOrderSensitive(t *testing.T) {
	l := HashLeaf([]byte("a"), []byte("1"))
	r := HashLeaf([]byte("b"), []byte("2"))
	assert.NotEqual(t, HashInternal(l, r), HashInternal(r, l))
}

func TestHashFromBytesPanicsOnBadLength(t *testing.T) {
	assert.Panics(t, func() {
		HashFromBytes([]byte{1, 2, 3})
	})
}
