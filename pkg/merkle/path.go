package merkle

import (
	"fmt"
	"math/bits"
)

// MaxTreeSize is the largest number of items a tree may hold. It keeps every
// arena index within int32 and every padded position within int.
const MaxTreeSize = 1 << 29

// PaddedWidth returns the smallest power of two >= size, the width of the
// leaf level once every odd level has been padded. It returns 0 when size
// exceeds MaxTreeSize.
func PaddedWidth(size int) int {
	if size <= 1 {
		return 1
	}
	if size > MaxTreeSize {
		return 0
	}
	return 1 << bits.Len(uint(size-1))
}

// treeHeight returns ceil(log2(size)).
func treeHeight(size int) int {
	return bits.TrailingZeros(uint(PaddedWidth(size)))
}

// PathDirections maps a leaf index to the side of each node on its path,
// ordered from the root's child down to the leaf. Right means the node on
// the path is the right child of its parent.
//
// Leaves are numbered as positions width..2*width-1 of a complete binary tree
// rooted at position 1; the low bit of each ancestor position is its side.
func PathDirections(index, size int) ([]Side, error) {
	if size < 1 {
		return nil, ErrEmptyInput
	}
	if size > MaxTreeSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrTreeTooLarge, size, MaxTreeSize)
	}
	if index < 0 || index >= size {
		return nil, fmt.Errorf("%w: index %d, tree has %d leaves", ErrIndexOutOfRange, index, size)
	}

	position := PaddedWidth(size) + index
	directions := make([]Side, 0, treeHeight(size))
	for position >= 2 {
		directions = append(directions, Side(position%2))
		position /= 2
	}

	// collected leaf-first
	for i, j := 0, len(directions)-1; i < j; i, j = i+1, j-1 {
		directions[i], directions[j] = directions[j], directions[i]
	}
	return directions, nil
}
