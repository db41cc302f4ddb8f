package util

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/Layr-Labs/eigenx-merkle-go/pkg/config"
)

// ReadItems splits r into merkle items.
//
// With InputFormatLines every line is one item with its bytes kept as-is, so a
// CRLF file yields items ending in "\r"; a final newline does not start an
// extra item. With InputFormatHex every non-blank line is trimmed of
// whitespace, including "\r", and decoded as hex with or without a 0x prefix.
func ReadItems(r io.Reader, format config.InputFormat) ([][]byte, error) {
	switch format {
	case config.InputFormatLines, "":
		return readLines(r)
	case config.InputFormatHex:
		lines, err := readLines(r)
		if err != nil {
			return nil, err
		}
		items := make([][]byte, 0, len(lines))
		for i, line := range lines {
			s := strings.TrimSpace(string(line))
			if s == "" {
				continue
			}
			item, err := DecodeHex(s)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid hex item on line %d", i+1)
			}
			items = append(items, item)
		}
		return items, nil
	default:
		return nil, errors.Errorf("unsupported input format: %s", format)
	}
}

// ReadItemsFile reads items from the file at path.
func ReadItemsFile(path string, format config.InputFormat) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open items file")
	}
	defer func() { _ = f.Close() }()

	items, err := ReadItems(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read items from %s", path)
	}
	return items, nil
}

// DecodeHex decodes a hex string with an optional 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

func readLines(r io.Reader) ([][]byte, error) {
	br := bufio.NewReader(r)
	lines := make([][]byte, 0)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimSuffix(line, []byte("\n"))
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read input")
		}
	}
}
