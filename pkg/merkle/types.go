package merkle

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DigestSize is the width in bytes of every digest in the tree.
const DigestSize = 32

// Digest is the fixed-width output of a Hasher.
type Digest [DigestSize]byte

// Bytes returns a copy of the digest as a byte slice.
func (d Digest) Bytes() []byte {
	b := make([]byte, DigestSize)
	copy(b, d[:])
	return b
}

// Hex returns the 0x-prefixed hex encoding of the digest.
func (d Digest) Hex() string {
	return hexutil.Encode(d[:])
}

func (d Digest) String() string {
	return d.Hex()
}

// noChild marks an absent child in the node arena.
const noChild int32 = -1

// Node is an immutable tree node stored in its tree's arena.
// A leaf has no children; an internal node owns exactly two.
type Node struct {
	Hash Digest

	left  int32
	right int32
}

// IsLeaf reports whether the node has no children.
// Padding duplicates are childless as well.
func (n Node) IsLeaf() bool {
	return n.left == noChild
}

// MerkleTree is a binary hash tree built once from an ordered list of items.
// It is never mutated after Build returns and is safe for concurrent readers.
type MerkleTree struct {
	// nodes is the arena holding every node; children are addressed by index.
	// nodes[0:size] are the leaves in input order.
	nodes []Node

	root   int32
	size   int
	height int
	hasher Hasher
}

// Root returns the root digest of the tree.
func (mt *MerkleTree) Root() Digest {
	return mt.nodes[mt.root].Hash
}

// Size returns the number of items the tree was built from (padding excluded).
func (mt *MerkleTree) Size() int {
	return mt.size
}

// Height returns the number of levels above the leaves, ceil(log2(size)).
func (mt *MerkleTree) Height() int {
	return mt.height
}

// Leaf returns the leaf digest for the item at index.
func (mt *MerkleTree) Leaf(index int) (Digest, bool) {
	if index < 0 || index >= mt.size {
		return Digest{}, false
	}
	return mt.nodes[index].Hash, true
}

// Hasher returns the hasher the tree was built with.
func (mt *MerkleTree) Hasher() Hasher {
	return mt.hasher
}

// Side is the position of a sibling digest relative to the running digest
// when the verifier recomputes a parent.
type Side uint8

const (
	// Left means the sibling is concatenated before the running digest.
	Left Side = iota
	// Right means the sibling is concatenated after the running digest.
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ProofStep is one sibling digest on the path from a leaf to the root.
type ProofStep struct {
	Sibling Digest
	Side    Side
}

// Proof is an inclusion proof for a single leaf.
type Proof struct {
	// Index is the position of the proven item in the original input
	Index int

	// TreeSize is the number of items the tree was built from
	TreeSize int

	// Steps runs from the leaf's immediate sibling up to the sibling just below the root.
	// It is empty for a single-item tree.
	Steps []ProofStep
}
