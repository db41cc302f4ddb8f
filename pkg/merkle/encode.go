package merkle

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MarshalText encodes the digest as 0x-prefixed hex.
func (d Digest) MarshalText() ([]byte, error) {
	return hexutil.Bytes(d[:]).MarshalText()
}

// UnmarshalText decodes 0x-prefixed hex of exactly DigestSize bytes.
func (d *Digest) UnmarshalText(input []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(input); err != nil {
		return fmt.Errorf("invalid digest: %w", err)
	}
	if len(b) != DigestSize {
		return fmt.Errorf("invalid digest length: expected %d bytes, got %d", DigestSize, len(b))
	}
	copy(d[:], b)
	return nil
}

// ParseDigest decodes a 0x-prefixed hex digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	err := d.UnmarshalText([]byte(s))
	return d, err
}

func (s Side) MarshalText() ([]byte, error) {
	switch s {
	case Left, Right:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid side: %d", s)
	}
}

func (s *Side) UnmarshalText(input []byte) error {
	switch string(input) {
	case "left":
		*s = Left
	case "right":
		*s = Right
	default:
		return fmt.Errorf("invalid side: %q", string(input))
	}
	return nil
}

type proofStepJSON struct {
	Sibling Digest `json:"sibling"`
	Side    Side   `json:"side"`
}

type proofJSON struct {
	Index    int             `json:"index"`
	TreeSize int             `json:"treeSize"`
	Steps    []proofStepJSON `json:"steps"`
}

// MarshalJSON encodes the proof as
// {"index":1,"treeSize":3,"steps":[{"sibling":"0x..","side":"left"}]}.
func (p *Proof) MarshalJSON() ([]byte, error) {
	out := proofJSON{
		Index:    p.Index,
		TreeSize: p.TreeSize,
		Steps:    make([]proofStepJSON, len(p.Steps)),
	}
	for i, step := range p.Steps {
		out.Steps[i] = proofStepJSON(step)
	}
	return json.Marshal(out)
}

func (p *Proof) UnmarshalJSON(data []byte) error {
	var in proofJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.TreeSize > MaxTreeSize {
		return fmt.Errorf("%w: %d > %d", ErrTreeTooLarge, in.TreeSize, MaxTreeSize)
	}
	if in.Index < 0 || in.TreeSize < 1 || in.Index >= in.TreeSize {
		return fmt.Errorf("%w: index %d, tree has %d leaves", ErrIndexOutOfRange, in.Index, in.TreeSize)
	}

	p.Index = in.Index
	p.TreeSize = in.TreeSize
	p.Steps = make([]ProofStep, len(in.Steps))
	for i, step := range in.Steps {
		p.Steps[i] = ProofStep(step)
	}
	return nil
}
