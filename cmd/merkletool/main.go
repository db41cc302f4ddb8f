package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-merkle-go/pkg/config"
)

func main() {
	app := newApp(nil)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the CLI. A nil logger is created from the --verbose flag.
func newApp(l *zap.Logger) *cli.App {
	t := &tool{logger: l}

	return &cli.App{
		Name:  "merkletool",
		Usage: "Build merkle trees over items and create or check inclusion proofs",
		Description: `Builds a binary merkle tree over an ordered list of items read from a file.

This tool can:
- Print the root digest of the tree
- Print an inclusion proof for an item by index as JSON
- Verify an item against a proof and a trusted root`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "hash",
				Usage:   fmt.Sprintf("Hash algorithm: %s", config.GetSupportedHashAlgorithmsString()),
				Value:   config.HashAlgorithmSHA3.String(),
				EnvVars: []string{config.EnvMerkleHash},
			},
			&cli.BoolFlag{
				Name:    "domain-separation",
				Usage:   "Prefix leaf and node input before hashing (roots differ from the plain scheme)",
				EnvVars: []string{config.EnvMerkleDomainSeparation},
			},
			&cli.StringFlag{
				Name:    "input-format",
				Usage:   "Item file format: lines (one raw item per line, a CR before the newline is kept) or hex (one hex item per line)",
				Value:   config.InputFormatLines.String(),
				EnvVars: []string{config.EnvMerkleInputFormat},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvMerkleVerbose},
			},
		},
		Before: t.setup,
		After:  t.teardown,
		Commands: []*cli.Command{
			{
				Name:  "root",
				Usage: "Print the root digest of the tree built from the input items",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to the items file",
						Required: true,
					},
				},
				Action: t.rootCommand,
			},
			{
				Name:  "proof",
				Usage: "Print the inclusion proof for the item at an index",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to the items file",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "index",
						Usage:    "Zero based index of the item to prove",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output file for the proof JSON",
						Value: "",
					},
				},
				Action: t.proofCommand,
			},
			{
				Name:  "verify",
				Usage: "Verify an item against a proof and a trusted root",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "item",
						Usage: "Item as a raw string",
					},
					&cli.StringFlag{
						Name:  "item-hex",
						Usage: "Item as a hex string",
					},
					&cli.StringFlag{
						Name:     "proof",
						Usage:    "Path to the proof JSON",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "root",
						Usage:    "Trusted root digest (0x-prefixed hex)",
						Required: true,
					},
				},
				Action: t.verifyCommand,
			},
		},
	}
}
