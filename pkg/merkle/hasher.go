package merkle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

// Hasher computes leaf and internal node digests.
// Implementations must be deterministic and safe for concurrent use.
// The tree builder and the verifier must use the same Hasher.
type Hasher interface {
	// Leaf hashes one raw item.
	Leaf(data []byte) Digest

	// Node hashes the concatenation left || right.
	Node(left, right Digest) Digest

	// Name identifies the hashing scheme.
	Name() string
}

const (
	HasherNameSHA3      = "sha3-256"
	HasherNameKeccak256 = "keccak256"
)

// Domain separation prefixes used by DomainSeparatedHasher.
const (
	LeafPrefix byte = 0x00
	NodePrefix byte = 0x01
)

// DefaultHasher is SHA3-256 without domain separation.
var DefaultHasher Hasher = SHA3Hasher{}

// SHA3Hasher hashes with SHA3-256: Leaf = H(data), Node = H(left || right).
type SHA3Hasher struct{}

func (SHA3Hasher) Leaf(data []byte) Digest {
	return Digest(sha3.Sum256(data))
}

func (SHA3Hasher) Node(left, right Digest) Digest {
	h := sha3.New256()
	_, _ = h.Write(left[:])
	_, _ = h.Write(right[:])

	var d Digest
	h.Sum(d[:0])
	return d
}

func (SHA3Hasher) Name() string { return HasherNameSHA3 }

// Keccak256Hasher is the same scheme as SHA3Hasher over legacy Keccak-256,
// which matches Solidity's keccak256.
type Keccak256Hasher struct{}

func (Keccak256Hasher) Leaf(data []byte) Digest {
	return Digest(crypto.Keccak256Hash(data))
}

func (Keccak256Hasher) Node(left, right Digest) Digest {
	return Digest(crypto.Keccak256Hash(left[:], right[:]))
}

func (Keccak256Hasher) Name() string { return HasherNameKeccak256 }

// DomainSeparatedHasher prefixes leaf input with LeafPrefix and node input
// with NodePrefix, so a leaf digest can never be reinterpreted as an internal
// node. Inner.Leaf must be the plain hash of its input. Roots differ from the
// unprefixed scheme.
type DomainSeparatedHasher struct {
	Inner Hasher
}

func (dh DomainSeparatedHasher) Leaf(data []byte) Digest {
	buf := make([]byte, 0, 1+len(data))
	buf = append(buf, LeafPrefix)
	buf = append(buf, data...)
	return dh.Inner.Leaf(buf)
}

func (dh DomainSeparatedHasher) Node(left, right Digest) Digest {
	buf := make([]byte, 0, 1+2*DigestSize)
	buf = append(buf, NodePrefix)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return dh.Inner.Leaf(buf)
}

func (dh DomainSeparatedHasher) Name() string {
	return dh.Inner.Name() + "+domain"
}

// HasherByName resolves a hasher by its scheme name, optionally wrapped with
// domain separation.
func HasherByName(name string, domainSeparation bool) (Hasher, error) {
	var h Hasher
	switch name {
	case HasherNameSHA3, "":
		h = SHA3Hasher{}
	case HasherNameKeccak256:
		h = Keccak256Hasher{}
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
	if !domainSeparation {
		return h, nil
	}
	return DomainSeparatedHasher{Inner: h}, nil
}

// HashLeaf hashes one item with DefaultHasher.
func HashLeaf(data []byte) Digest {
	return DefaultHasher.Leaf(data)
}

// HashInternal combines two child digests with DefaultHasher.
func HashInternal(left, right Digest) Digest {
	return DefaultHasher.Node(left, right)
}
