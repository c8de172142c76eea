package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathFromBits(bits ...byte) Path {
	var p Path
	for i, b := range bits {
		setBit(&p, i, b)
	}
	return p
}

func TestDivergenceIndexIdentical(t *testing.T) {
	p := pathFromBits(1, 0, 1, 1)
	assert.Equal(t, PathBits, DivergenceIndex(p, p))
}

func TestDivergenceIndexFirstBit(t *testing.T) {
	p0 := pathFromBits(0, 1, 1)
	p1 := pathFromBits(1, 1, 1)
	assert.Equal(t, 0, DivergenceIndex(p0, p1))
}

func TestDivergenceIndexDeepBit(t *testing.T) {
	p0 := pathFromBits(1, 1, 1, 0)
	p1 := pathFromBits(1, 1, 1, 1)
	assert.Equal(t, 3, DivergenceIndex(p0, p1))
}

func TestLCPPaddedAndLength(t *testing.T) {
	p0 := pathFromBits(1, 0, 1, 1, 0)
	p1 := pathFromBits(1, 0, 1, 0, 1)
	prefix, n := LCP(p0, p1)
	require.Equal(t, 3, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, GetBit(p0, i), GetBit(prefix, i))
	}
	for i := n; i < PathBits; i++ {
		assert.Zero(t, GetBit(prefix, i))
	}
}

func TestPrefixMatch(t *testing.T) {
	target := pathFromBits(1, 0, 1, 1)
	path := pathFromBits(1, 0, 1, 0)
	assert.True(t, PrefixMatch(target, path, 3))
	assert.False(t, PrefixMatch(target, path, 4))
}

func TestPadTo256ZeroesTail(t *testing.T) {
	p := pathFromBits(1, 1, 1, 1, 1, 1, 1, 1, 1)
	padded := PadTo256(p, 4)
	for i := 0; i < 4; i++ {
		assert.Equal(t, byte(1), GetBit(padded, i))
	}
	for i := 4; i < PathBits; i++ {
		assert.Zero(t, GetBit(padded, i))
	}
}

func TestWithBitBuildsChildTarget(t *testing.T) {
	parent := pathFromBits(1, 0, 1)
	child := WithBit(parent, 3, 1)
	assert.Equal(t, byte(1), GetBit(child, 0))
	assert.Equal(t, byte(0), GetBit(child, 1))
	assert.Equal(t, byte(1), GetBit(child, 2))
	assert.Equal(t, byte(1), GetBit(child, 3))
	for i := 4; i < PathBits; i++ {
		assert.Zero(t, GetBit(child, i))
	}
}

func TestPathLess(t *testing.T) {
	lo := pathFromBits(0, 1, 1)
	hi := pathFromBits(1, 0, 0)
	assert.True(t, lo.Less(hi))
	assert.False(t, hi.Less(lo))
}
