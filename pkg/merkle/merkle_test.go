package merkle

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// Reference vectors for items [1,2,3], [4,5,6], [7,8,9] under SHA3-256.
var (
	vectorItems = [][]byte{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}

	vectorLeaf0 = mustDigest("0xfd1780a6fc9ee0dab26ceb4b3941ab03e66ccd970d1db91612c66df4515b0a0a")
	vectorPad   = mustDigest("0x29f0b75d174bd338442e7aca7c587b30618ae6a7031ebe54b83ad1268f614ba2")
	vectorRoot  = mustDigest("0xbea3fda3a0b83d25eff3d41c6aa2d63d03492ccc30da1d678a086f8167253164")
)

func mustDigest(s string) Digest {
	return Digest(common.HexToHash(s))
}

// createTestItems creates n random items of varying length
func createTestItems(n int) [][]byte {
	items := make([][]byte, n)
	for i := 0; i < n; i++ {
		item := make([]byte, 8+i%24)
		_, _ = rand.Read(item) // Ignore error in test helper
		items[i] = item
	}
	return items
}

// TestBuild tests merkle tree construction with various numbers of items
func TestBuild(t *testing.T) {
	testCases := []struct {
		name     string
		numItems int
		height   int
	}{
		{"Single item", 1, 0},
		{"Two items", 2, 1},
		{"Three items", 3, 2},
		{"Four items (power of 2)", 4, 2},
		{"Five items", 5, 3},
		{"Seven items", 7, 3},
		{"Eight items (power of 2)", 8, 3},
		{"Fifteen items", 15, 4},
		{"Sixteen items (power of 2)", 16, 4},
		{"Seventeen items", 17, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			items := createTestItems(tc.numItems)
			tree, err := Build(items)
			require.NoError(t, err)
			require.NotNil(t, tree)

			require.Equal(t, tc.numItems, tree.Size())
			require.Equal(t, tc.height, tree.Height())
			require.NotEqual(t, Digest{}, tree.Root())

			// Generate and verify proofs for all leaves
			for i := 0; i < tc.numItems; i++ {
				proof, ok := tree.GetProof(i)
				require.True(t, ok)
				require.Equal(t, i, proof.Index)
				require.Equal(t, tc.numItems, proof.TreeSize)
				require.Len(t, proof.Steps, tc.height)

				leaf, ok := tree.Leaf(i)
				require.True(t, ok)
				require.Equal(t, HashLeaf(items[i]), leaf)

				valid := VerifyProof(items[i], i, tree.Size(), proof, tree.Root())
				require.True(t, valid, "Proof for leaf %d should be valid", i)
				require.True(t, tree.Verify(items[i], proof))
			}
		})
	}
}

// TestBuildEmpty tests that building a tree from no items fails
func TestBuildEmpty(t *testing.T) {
	tree, err := Build([][]byte{})
	require.ErrorIs(t, err, ErrEmptyInput)
	require.Nil(t, tree)

	tree, err = Build(nil)
	require.ErrorIs(t, err, ErrEmptyInput)
	require.Nil(t, tree)
}

func TestReferenceVectors(t *testing.T) {
	t.Run("Leaf hash", func(t *testing.T) {
		require.Equal(t, vectorLeaf0, HashLeaf([]byte{1, 2, 3}))
	})

	t.Run("Root", func(t *testing.T) {
		tree, err := Build(vectorItems)
		require.NoError(t, err)
		require.Equal(t, 3, tree.Size())
		require.Equal(t, vectorRoot, tree.Root())
	})

	t.Run("Proof for index 1", func(t *testing.T) {
		tree, err := Build(vectorItems)
		require.NoError(t, err)

		proof, ok := tree.GetProof(1)
		require.True(t, ok)
		require.Equal(t, []ProofStep{
			{Sibling: vectorLeaf0, Side: Left},
			{Sibling: vectorPad, Side: Right},
		}, proof.Steps)

		require.True(t, VerifyProof(vectorItems[1], 1, 3, proof, vectorRoot))
	})

	t.Run("Padding duplicates the last digest", func(t *testing.T) {
		leaf2 := HashLeaf(vectorItems[2])
		require.Equal(t, vectorPad, HashInternal(leaf2, leaf2))

		tree, err := Build(vectorItems)
		require.NoError(t, err)

		proof, ok := tree.GetProof(2)
		require.True(t, ok)
		require.Equal(t, ProofStep{Sibling: leaf2, Side: Right}, proof.Steps[0])
	})
}

func TestSingleItemTree(t *testing.T) {
	item := []byte("only")
	tree, err := Build([][]byte{item})
	require.NoError(t, err)

	require.Equal(t, 1, tree.Size())
	require.Equal(t, 0, tree.Height())
	require.Equal(t, HashLeaf(item), tree.Root())

	proof, ok := tree.GetProof(0)
	require.True(t, ok)
	require.Empty(t, proof.Steps)
	require.True(t, VerifyProof(item, 0, 1, proof, tree.Root()))
	require.False(t, VerifyProof([]byte("other"), 0, 1, proof, tree.Root()))
}

func TestEmptyItem(t *testing.T) {
	tree, err := Build([][]byte{{}, {}})
	require.NoError(t, err)
	require.Equal(t, HashInternal(HashLeaf(nil), HashLeaf(nil)), tree.Root())

	proof, ok := tree.GetProof(1)
	require.True(t, ok)
	require.True(t, VerifyProof([]byte{}, 1, 2, proof, tree.Root()))
}

// TestProofVerification tests proof verification with valid and invalid cases
func TestProofVerification(t *testing.T) {
	items := createTestItems(5)
	tree, err := Build(items)
	require.NoError(t, err)

	t.Run("Valid proof", func(t *testing.T) {
		proof, ok := tree.GetProof(3)
		require.True(t, ok)
		require.True(t, VerifyProof(items[3], 3, 5, proof, tree.Root()))
	})

	t.Run("Invalid proof - wrong root", func(t *testing.T) {
		proof, ok := tree.GetProof(3)
		require.True(t, ok)

		invalidRoot := tree.Root()
		invalidRoot[0] ^= 0xFF
		require.False(t, VerifyProof(items[3], 3, 5, proof, invalidRoot))
	})

	t.Run("Invalid proof - tampered item", func(t *testing.T) {
		proof, ok := tree.GetProof(3)
		require.True(t, ok)

		tampered := append([]byte{}, items[3]...)
		tampered[0] ^= 0xFF
		require.False(t, VerifyProof(tampered, 3, 5, proof, tree.Root()))
	})

	t.Run("Invalid proof - other item", func(t *testing.T) {
		proof, ok := tree.GetProof(3)
		require.True(t, ok)
		require.False(t, VerifyProof(items[2], 3, 5, proof, tree.Root()))
	})

	t.Run("Invalid proof - tampered sibling", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			proof, ok := tree.GetProof(3)
			require.True(t, ok)

			proof.Steps[i].Sibling[0] ^= 0xFF
			require.False(t, VerifyProof(items[3], 3, 5, proof, tree.Root()), "step %d", i)
		}
	})

	t.Run("Invalid proof - flipped side", func(t *testing.T) {
		proof, ok := tree.GetProof(3)
		require.True(t, ok)

		proof.Steps[0].Side = siblingSide(proof.Steps[0].Side)
		require.False(t, VerifyProof(items[3], 3, 5, proof, tree.Root()))
	})

	t.Run("Invalid proof - truncated", func(t *testing.T) {
		proof, ok := tree.GetProof(3)
		require.True(t, ok)

		proof.Steps = proof.Steps[:len(proof.Steps)-1]
		require.False(t, VerifyProof(items[3], 3, 5, proof, tree.Root()))
	})

	t.Run("Invalid proof - wrong index", func(t *testing.T) {
		proof, ok := tree.GetProof(3)
		require.True(t, ok)
		require.False(t, VerifyProof(items[3], 2, 5, proof, tree.Root()))

		proof.Index = 2
		require.False(t, VerifyProof(items[3], 2, 5, proof, tree.Root()))
	})

	t.Run("Invalid proof - wrong tree size", func(t *testing.T) {
		proof, ok := tree.GetProof(3)
		require.True(t, ok)
		require.False(t, VerifyProof(items[3], 3, 6, proof, tree.Root()))
		require.False(t, VerifyProof(items[3], 3, 3, proof, tree.Root()))
	})

	t.Run("Invalid proof - nil proof", func(t *testing.T) {
		require.False(t, VerifyProof(items[0], 0, 5, nil, tree.Root()))
		require.False(t, tree.Verify(items[0], nil))
	})

	t.Run("Invalid proof - other hasher", func(t *testing.T) {
		proof, ok := tree.GetProof(3)
		require.True(t, ok)
		require.False(t, VerifyProofWithHasher(Keccak256Hasher{}, items[3], 3, 5, proof, tree.Root()))
	})
}

// TestGetProofInvalidIndex tests proof generation with invalid indices
func TestGetProofInvalidIndex(t *testing.T) {
	tree, err := Build(createTestItems(4))
	require.NoError(t, err)

	for _, index := range []int{-1, 4, 10} {
		t.Run(fmt.Sprintf("Index_%d", index), func(t *testing.T) {
			proof, ok := tree.GetProof(index)
			require.False(t, ok)
			require.Nil(t, proof)

			proof, err := tree.GenerateProof(index)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrIndexOutOfRange))
			require.Nil(t, proof)

			_, ok = tree.Leaf(index)
			require.False(t, ok)
		})
	}
}

// TestBuildDeterminism tests that the same items always produce the same tree
func TestBuildDeterminism(t *testing.T) {
	items := createTestItems(10)

	tree1, err := Build(items)
	require.NoError(t, err)

	tree2, err := Build(items)
	require.NoError(t, err)

	require.Equal(t, tree1.Root(), tree2.Root())
	for i := 0; i < len(items); i++ {
		p1, _ := tree1.GetProof(i)
		p2, _ := tree2.GetProof(i)
		require.Equal(t, p1, p2)
	}
}

// TestBuildPreservesOrder tests that item order is part of the commitment
func TestBuildPreservesOrder(t *testing.T) {
	items := createTestItems(4)

	tree1, err := Build(items)
	require.NoError(t, err)

	reversed := make([][]byte, len(items))
	for i := range items {
		reversed[len(items)-1-i] = items[i]
	}
	tree2, err := Build(reversed)
	require.NoError(t, err)

	require.NotEqual(t, tree1.Root(), tree2.Root())
}

// TestBuildDoesNotRetainItems checks that changing the input after Build has no effect
func TestBuildDoesNotRetainItems(t *testing.T) {
	items := createTestItems(3)
	tree, err := Build(items)
	require.NoError(t, err)
	root := tree.Root()

	items[0][0] ^= 0xFF
	require.Equal(t, root, tree.Root())
}

// TestPaddingMatchesExplicitDuplicate checks that padding an odd level is
// equivalent to repeating the last item
func TestPaddingMatchesExplicitDuplicate(t *testing.T) {
	items := createTestItems(3)
	padded := append(append([][]byte{}, items...), items[2])

	tree1, err := Build(items)
	require.NoError(t, err)
	tree2, err := Build(padded)
	require.NoError(t, err)

	require.Equal(t, tree1.Root(), tree2.Root())
	require.Equal(t, 3, tree1.Size())
	require.Equal(t, 4, tree2.Size())
}

// TestLargeTree tests with a larger number of items
func TestLargeTree(t *testing.T) {
	sizes := []int{50, 100, 200, 1000}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("Size_%d", size), func(t *testing.T) {
			items := createTestItems(size)
			tree, err := Build(items)
			require.NoError(t, err)
			require.Equal(t, size, tree.Size())

			testIndices := []int{0, size / 4, size / 2, size - 1}
			for _, idx := range testIndices {
				proof, ok := tree.GetProof(idx)
				require.True(t, ok)
				require.True(t, VerifyProof(items[idx], idx, size, proof, tree.Root()))
			}
		})
	}
}

// TestConcurrentProofs tests that proofs can be generated and verified from many goroutines
func TestConcurrentProofs(t *testing.T) {
	items := createTestItems(33)
	tree, err := Build(items)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, len(items))
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			proof, ok := tree.GetProof(i)
			results[i] = ok && tree.Verify(items[i], proof)
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		require.True(t, ok, "proof %d", i)
	}
}

func TestBuildWithHasher(t *testing.T) {
	items := createTestItems(7)

	hashers := []Hasher{
		SHA3Hasher{},
		Keccak256Hasher{},
		DomainSeparatedHasher{Inner: SHA3Hasher{}},
		DomainSeparatedHasher{Inner: Keccak256Hasher{}},
	}

	roots := make(map[Digest]string)
	for _, h := range hashers {
		t.Run(h.Name(), func(t *testing.T) {
			tree, err := BuildWithHasher(items, h)
			require.NoError(t, err)
			require.Equal(t, h, tree.Hasher())

			for i := range items {
				proof, ok := tree.GetProof(i)
				require.True(t, ok)
				require.True(t, VerifyProofWithHasher(h, items[i], i, len(items), proof, tree.Root()))
				require.True(t, tree.Verify(items[i], proof))
			}

			_, seen := roots[tree.Root()]
			require.False(t, seen, "root collides with another hasher")
			roots[tree.Root()] = h.Name()
		})
	}

	t.Run("Nil hasher uses default", func(t *testing.T) {
		tree, err := BuildWithHasher(vectorItems, nil)
		require.NoError(t, err)
		require.Equal(t, vectorRoot, tree.Root())
	})
}

func TestDomainSeparatedVector(t *testing.T) {
	tree, err := BuildWithHasher(vectorItems, DomainSeparatedHasher{Inner: SHA3Hasher{}})
	require.NoError(t, err)
	require.Equal(t, mustDigest("0x78141d36ff98807e3671e8cc8afd1b8b13cace097d8dcd3b005cdf03a31e8f16"), tree.Root())
}

func TestFiveItemVector(t *testing.T) {
	items := make([][]byte, 5)
	for i := range items {
		items[i] = []byte{byte(i)}
	}
	tree, err := Build(items)
	require.NoError(t, err)
	require.Equal(t, mustDigest("0x16fc6793cd693f2f8453c7e09e08efaa2277445cf6345f7b07a39d27c8abeefb"), tree.Root())
}

// TestVerifyProofRejectsOversizedTree checks that an empty proof cannot be
// passed off against a claimed tree size beyond MaxTreeSize
func TestVerifyProofRejectsOversizedTree(t *testing.T) {
	item := []byte("x")
	root := HashLeaf(item)

	for _, size := range []int{MaxTreeSize + 1, (1 << 62) + 1} {
		proof := &Proof{Index: 5, TreeSize: size}
		require.False(t, VerifyProof(item, 5, size, proof, root), "size %d", size)
	}

	// A short proof for a large but valid size must still fail the length check.
	proof := &Proof{Index: 5, TreeSize: MaxTreeSize}
	require.False(t, VerifyProof(item, 5, MaxTreeSize, proof, root))
}
