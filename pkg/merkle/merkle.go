package merkle

import (
	"fmt"
)

// Build creates a binary merkle tree from items using DefaultHasher.
// Item order is preserved; the tree is never re-sorted.
func Build(items [][]byte) (*MerkleTree, error) {
	return BuildWithHasher(items, DefaultHasher)
}

// BuildWithHasher creates a binary merkle tree from items.
//
// If there's an odd number of nodes at any level above one, a duplicate of the
// last node carrying the same digest is appended before pairing.
func BuildWithHasher(items [][]byte, hasher Hasher) (*MerkleTree, error) {
	if len(items) == 0 {
		return nil, ErrEmptyInput
	}
	if len(items) > MaxTreeSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrTreeTooLarge, len(items), MaxTreeSize)
	}
	if hasher == nil {
		hasher = DefaultHasher
	}

	// Each level contributes at most one padding node, and an internal node
	// per pair, so the arena never exceeds 2*size + height entries, which fits
	// int32 indices for any size up to MaxTreeSize.
	height := treeHeight(len(items))
	nodes := make([]Node, 0, 2*len(items)+height)

	// Hash all leaves
	level := make([]int32, len(items))
	for i, item := range items {
		nodes = append(nodes, Node{Hash: hasher.Leaf(item), left: noChild, right: noChild})
		level[i] = int32(i)
	}

	for len(level) > 1 {
		if len(level)%2 == 1 {
			last := nodes[level[len(level)-1]]
			nodes = append(nodes, Node{Hash: last.Hash, left: noChild, right: noChild})
			level = append(level, int32(len(nodes)-1))
		}

		parents := make([]int32, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			left, right := level[i], level[i+1]
			nodes = append(nodes, Node{
				Hash:  hasher.Node(nodes[left].Hash, nodes[right].Hash),
				left:  left,
				right: right,
			})
			parents = append(parents, int32(len(nodes)-1))
		}
		level = parents
	}

	return &MerkleTree{
		nodes:  nodes,
		root:   level[0],
		size:   len(items),
		height: height,
		hasher: hasher,
	}, nil
}

// GetProof returns the inclusion proof for the leaf at index.
// The second return value is false when index is not in [0, Size()).
func (mt *MerkleTree) GetProof(index int) (*Proof, bool) {
	directions, err := PathDirections(index, mt.size)
	if err != nil {
		return nil, false
	}

	steps := make([]ProofStep, 0, len(directions))
	node := mt.nodes[mt.root]
	for _, direction := range directions {
		if direction == Right {
			steps = append(steps, ProofStep{Sibling: mt.nodes[node.left].Hash, Side: Left})
			node = mt.nodes[node.right]
		} else {
			steps = append(steps, ProofStep{Sibling: mt.nodes[node.right].Hash, Side: Right})
			node = mt.nodes[node.left]
		}
	}

	// Verification consumes steps from the leaf upward.
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return &Proof{
		Index:    index,
		TreeSize: mt.size,
		Steps:    steps,
	}, true
}

// GenerateProof is GetProof returning ErrIndexOutOfRange instead of false.
func (mt *MerkleTree) GenerateProof(index int) (*Proof, error) {
	proof, ok := mt.GetProof(index)
	if !ok {
		return nil, fmt.Errorf("%w: index %d, tree has %d leaves", ErrIndexOutOfRange, index, mt.size)
	}
	return proof, nil
}

// Verify checks that item is the leaf proven by proof in this tree.
func (mt *MerkleTree) Verify(item []byte, proof *Proof) bool {
	if proof == nil {
		return false
	}
	return VerifyProofWithHasher(mt.hasher, item, proof.Index, mt.size, proof, mt.Root())
}

// VerifyProof verifies with DefaultHasher that item sits at index in a tree of
// treeSize items whose root is root.
func VerifyProof(item []byte, index, treeSize int, proof *Proof, root Digest) bool {
	return VerifyProofWithHasher(DefaultHasher, item, index, treeSize, proof, root)
}

// VerifyProofWithHasher recomputes the root from item and the proof steps and
// compares it against root.
//
// The proof shape is checked against (index, treeSize) before any hashing: the
// step count must equal the tree height and each side must match the path.
func VerifyProofWithHasher(hasher Hasher, item []byte, index, treeSize int, proof *Proof, root Digest) bool {
	if proof == nil || hasher == nil {
		return false
	}
	if proof.Index != index || proof.TreeSize != treeSize {
		return false
	}

	directions, err := PathDirections(index, treeSize)
	if err != nil {
		return false
	}
	if len(proof.Steps) != len(directions) {
		return false
	}

	current := hasher.Leaf(item)
	for i, step := range proof.Steps {
		// directions run root-first, steps leaf-first
		if expected := siblingSide(directions[len(directions)-1-i]); step.Side != expected {
			return false
		}

		switch step.Side {
		case Left:
			current = hasher.Node(step.Sibling, current)
		case Right:
			current = hasher.Node(current, step.Sibling)
		default:
			return false
		}
	}

	return current == root
}

// siblingSide returns the side the sibling sits on for a node on the given side.
func siblingSide(nodeSide Side) Side {
	if nodeSide == Right {
		return Left
	}
	return Right
}
