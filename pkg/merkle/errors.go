package merkle

import "errors"

var (
	// ErrEmptyInput is returned when a tree is built from zero items.
	ErrEmptyInput = errors.New("cannot build merkle tree from empty item list")

	// ErrIndexOutOfRange is returned when a leaf index is not in [0, size).
	ErrIndexOutOfRange = errors.New("leaf index out of range")

	// ErrTreeTooLarge is returned when a tree size exceeds MaxTreeSize.
	ErrTreeTooLarge = errors.New("merkle tree size exceeds maximum")
)
