package config

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/Layr-Labs/eigenx-merkle-go/pkg/merkle"
)

// Environment variable names for merkletool configuration
const (
	EnvMerkleHash             = "MERKLE_HASH"
	EnvMerkleDomainSeparation = "MERKLE_DOMAIN_SEPARATION"
	EnvMerkleInputFormat      = "MERKLE_INPUT_FORMAT"
	EnvMerkleVerbose          = "MERKLE_VERBOSE"
)

type HashAlgorithm string

func (h HashAlgorithm) String() string {
	return string(h)
}

const (
	HashAlgorithmSHA3      HashAlgorithm = merkle.HasherNameSHA3 // reference scheme, default
	HashAlgorithmKeccak256 HashAlgorithm = merkle.HasherNameKeccak256
)

type InputFormat string

func (f InputFormat) String() string {
	return string(f)
}

const (
	// InputFormatLines treats every line of the input as one raw item
	InputFormatLines InputFormat = "lines"
	// InputFormatHex treats every non-blank line as a hex encoded item
	InputFormatHex InputFormat = "hex"
)

// GetSupportedHashAlgorithms returns all supported hash algorithms
func GetSupportedHashAlgorithms() []HashAlgorithm {
	return []HashAlgorithm{
		HashAlgorithmSHA3,
		HashAlgorithmKeccak256,
	}
}

// GetSupportedHashAlgorithmsString returns supported hash algorithms for CLI help
func GetSupportedHashAlgorithmsString() string {
	return strings.Join(hashAlgorithmNames(), ", ")
}

// GetSupportedInputFormats returns all supported item input formats
func GetSupportedInputFormats() []InputFormat {
	return []InputFormat{
		InputFormatLines,
		InputFormatHex,
	}
}

// ToolConfig represents the configuration shared by every merkletool command
type ToolConfig struct {
	HashAlgorithm    HashAlgorithm `json:"hash_algorithm"`
	DomainSeparation bool          `json:"domain_separation"` // prefix leaf and node input, not compatible with unprefixed roots
	InputFormat      InputFormat   `json:"input_format"`

	// Operational settings
	Verbose bool `json:"verbose"`
}

// NewDefaultToolConfig returns the reference configuration: SHA3-256 without domain separation
func NewDefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		HashAlgorithm: HashAlgorithmSHA3,
		InputFormat:   InputFormatLines,
	}
}

// Validate validates the tool configuration
func (c *ToolConfig) Validate() error {
	var allErrors field.ErrorList

	if !containsHashAlgorithm(c.HashAlgorithm) {
		allErrors = append(allErrors, field.NotSupported(
			field.NewPath("hashAlgorithm"), c.HashAlgorithm.String(), hashAlgorithmNames()))
	}
	if !containsInputFormat(c.InputFormat) {
		allErrors = append(allErrors, field.NotSupported(
			field.NewPath("inputFormat"), c.InputFormat.String(), inputFormatNames()))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// Hasher resolves the configured merkle hasher
func (c *ToolConfig) Hasher() (merkle.Hasher, error) {
	h, err := merkle.HasherByName(c.HashAlgorithm.String(), c.DomainSeparation)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hasher: %w", err)
	}
	return h, nil
}

func containsHashAlgorithm(h HashAlgorithm) bool {
	for _, supported := range GetSupportedHashAlgorithms() {
		if h == supported {
			return true
		}
	}
	return false
}

func containsInputFormat(f InputFormat) bool {
	for _, supported := range GetSupportedInputFormats() {
		if f == supported {
			return true
		}
	}
	return false
}

func hashAlgorithmNames() []string {
	var names []string
	for _, h := range GetSupportedHashAlgorithms() {
		names = append(names, h.String())
	}
	return names
}

func inputFormatNames() []string {
	var names []string
	for _, f := range GetSupportedInputFormats() {
		names = append(names, f.String())
	}
	return names
}
