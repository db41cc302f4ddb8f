package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-merkle-go/pkg/config"
	"github.com/Layr-Labs/eigenx-merkle-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-merkle-go/pkg/merkle"
	"github.com/Layr-Labs/eigenx-merkle-go/pkg/util"
)

// ErrInvalidProof is returned by the verify command when the item is not proven.
var ErrInvalidProof = errors.New("proof is invalid")

type tool struct {
	logger    *zap.Logger
	ownLogger bool

	cfg    *config.ToolConfig
	hasher merkle.Hasher
}

type rootOutput struct {
	Root   merkle.Digest `json:"root"`
	Size   int           `json:"size"`
	Height int           `json:"height"`
	Hash   string        `json:"hash"`
}

// setup parses and validates the global flags and creates the logger
func (t *tool) setup(c *cli.Context) error {
	cfg := parseToolConfig(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	hasher, err := cfg.Hasher()
	if err != nil {
		return err
	}
	t.cfg = cfg
	t.hasher = hasher

	if t.logger == nil {
		l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Verbose})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		t.logger = l
		t.ownLogger = true
	}

	t.logger.Sugar().Debugw("Loaded configuration",
		"hash", cfg.HashAlgorithm,
		"domain_separation", cfg.DomainSeparation,
		"input_format", cfg.InputFormat,
	)
	return nil
}

func (t *tool) teardown(_ *cli.Context) error {
	if t.ownLogger && t.logger != nil {
		_ = t.logger.Sync()
	}
	return nil
}

// parseToolConfig reads the global flags into a ToolConfig
func parseToolConfig(c *cli.Context) *config.ToolConfig {
	return &config.ToolConfig{
		HashAlgorithm:    config.HashAlgorithm(c.String("hash")),
		DomainSeparation: c.Bool("domain-separation"),
		InputFormat:      config.InputFormat(c.String("input-format")),
		Verbose:          c.Bool("verbose"),
	}
}

// buildTree reads the --input file and builds the tree
func (t *tool) buildTree(c *cli.Context) (*merkle.MerkleTree, error) {
	input := c.String("input")
	items, err := util.ReadItemsFile(input, t.cfg.InputFormat)
	if err != nil {
		return nil, err
	}

	tree, err := merkle.BuildWithHasher(items, t.hasher)
	if err != nil {
		return nil, fmt.Errorf("failed to build merkle tree from %s: %w", input, err)
	}

	t.logger.Sugar().Infow("Built merkle tree",
		"input", input,
		"size", tree.Size(),
		"height", tree.Height(),
		"hash", t.hasher.Name(),
	)
	return tree, nil
}

// rootCommand handles the root subcommand
func (t *tool) rootCommand(c *cli.Context) error {
	tree, err := t.buildTree(c)
	if err != nil {
		return err
	}

	return writeJSON(c, rootOutput{
		Root:   tree.Root(),
		Size:   tree.Size(),
		Height: tree.Height(),
		Hash:   t.hasher.Name(),
	})
}

// proofCommand handles the proof subcommand
func (t *tool) proofCommand(c *cli.Context) error {
	tree, err := t.buildTree(c)
	if err != nil {
		return err
	}

	index := c.Int("index")
	proof, err := tree.GenerateProof(index)
	if err != nil {
		return err
	}
	t.logger.Sugar().Debugw("Generated proof", "index", index, "steps", len(proof.Steps))

	outputFile := c.String("output")
	if outputFile == "" {
		return writeJSON(c, proof)
	}

	encoded, err := json.MarshalIndent(proof, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode proof: %w", err)
	}
	if err := os.WriteFile(outputFile, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	t.logger.Sugar().Infow("Wrote proof", "index", index, "output", outputFile)
	return nil
}

// verifyCommand handles the verify subcommand
func (t *tool) verifyCommand(c *cli.Context) error {
	item, err := itemFromFlags(c)
	if err != nil {
		return err
	}

	root, err := merkle.ParseDigest(c.String("root"))
	if err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}

	proofFile := c.String("proof")
	encoded, err := os.ReadFile(proofFile)
	if err != nil {
		return fmt.Errorf("failed to read proof: %w", err)
	}
	var proof merkle.Proof
	if err := json.Unmarshal(encoded, &proof); err != nil {
		return fmt.Errorf("failed to decode proof %s: %w", proofFile, err)
	}

	valid := merkle.VerifyProofWithHasher(t.hasher, item, proof.Index, proof.TreeSize, &proof, root)
	t.logger.Sugar().Infow("Verified proof",
		"index", proof.Index,
		"tree_size", proof.TreeSize,
		"root", root.Hex(),
		"valid", valid,
	)

	if !valid {
		_, _ = fmt.Fprintln(c.App.Writer, "invalid")
		return ErrInvalidProof
	}
	_, _ = fmt.Fprintln(c.App.Writer, "valid")
	return nil
}

// itemFromFlags returns the item given by exactly one of --item or --item-hex
func itemFromFlags(c *cli.Context) ([]byte, error) {
	raw, hasRaw := c.String("item"), c.IsSet("item")
	hexItem, hasHex := c.String("item-hex"), c.IsSet("item-hex")

	switch {
	case hasRaw && hasHex:
		return nil, fmt.Errorf("only one of --item and --item-hex may be set")
	case hasRaw:
		return []byte(raw), nil
	case hasHex:
		item, err := util.DecodeHex(hexItem)
		if err != nil {
			return nil, fmt.Errorf("invalid --item-hex: %w", err)
		}
		return item, nil
	default:
		return nil, fmt.Errorf("one of --item or --item-hex is required")
	}
}

func writeJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
