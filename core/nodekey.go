package core

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// NodeTag discriminates the single record kind stored in the ordered
// store. The spec calls for one constant discriminator; HUBT never
// needs more than one tag since leaves and internal nodes share a key
// space distinguished purely by Len.
type NodeTag byte

// LeafTag is the only tag byte written to the store. It exists so the
// on-disk key format matches spec.md §6 exactly (`tag_byte ‖ path ‖
// len_be_u16`), leaving room for a future second tag without changing
// the encoding width.
const LeafTag NodeTag = 0x01

// NodeKeySize is the encoded width of a NodeKey: 1 tag byte + 32 path
// bytes + 2 length bytes.
const NodeKeySize = 1 + HashSize + 2

// NodeKey identifies a stored entry — either a leaf (Len == 256) or a
// branching internal node (Len in [0, 255]) — by its path prefix and
// depth.
type NodeKey struct {
	Tag  NodeTag
	Path Path
	Len  uint16
}

// IsLeaf reports whether k addresses a leaf rather than an internal
// node.
func (k NodeKey) IsLeaf() bool {
	return k.Len == PathBits
}

// Encode renders k as its 35-byte on-disk record: tag ‖ path ‖
// len_be_u16. This byte layout already induces the ordering required by
// spec.md §3 (path as a big-endian integer, then Len ascending) because
// the tag is constant and the fields are laid out most-significant
// first.
func (k NodeKey) Encode() []byte {
	buf := make([]byte, NodeKeySize)
	buf[0] = byte(k.Tag)
	copy(buf[1:1+HashSize], k.Path[:])
	binary.BigEndian.PutUint16(buf[1+HashSize:], k.Len)
	return buf
}

// DecodeNodeKey parses a 35-byte record produced by Encode.
func DecodeNodeKey(b []byte) (NodeKey, error) {
	if len(b) != NodeKeySize {
		return NodeKey{}, fmt.Errorf("core: invalid node key length %d, want %d", len(b), NodeKeySize)
	}
	var k NodeKey
	k.Tag = NodeTag(b[0])
	copy(k.Path[:], b[1:1+HashSize])
	k.Len = binary.BigEndian.Uint16(b[1+HashSize:])
	return k, nil
}

// Compare orders node keys: Path as a 256-bit big-endian integer first
// (via holiman/uint256, reused from the corpus's own use of it for
// 256-bit value comparisons), then Len ascending. Returns -1, 0, or 1.
func (k NodeKey) Compare(other NodeKey) int {
	a := new(uint256.Int).SetBytes(k.Path[:])
	b := new(uint256.Int).SetBytes(other.Path[:])
	if c := a.Cmp(b); c != 0 {
		return c
	}
	switch {
	case k.Len < other.Len:
		return -1
	case k.Len > other.Len:
		return 1
	default:
		return 0
	}
}

// Less reports whether k sorts strictly before other.
func (k NodeKey) Less(other NodeKey) bool {
	return k.Compare(other) < 0
}

// LeafKey builds the NodeKey for a leaf at path p.
func LeafKey(p Path) NodeKey {
	return NodeKey{Tag: LeafTag, Path: p, Len: PathBits}
}

// InternalKey builds the NodeKey for a branching node rooted at the
// first len bits of p.
func InternalKey(p Path, length int) NodeKey {
	return NodeKey{Tag: LeafTag, Path: PadTo256(p, length), Len: uint16(length)}
}
