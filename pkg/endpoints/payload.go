package endpoints

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DecodePayload decodes a request body written as YAML or JSON.
// ext selects the format (".json", ".yaml", ".yml"); anything else tries both.
func DecodePayload(data []byte, ext string) (any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var out any
	if err := decode(data, ext, &out); err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	return out, nil
}

// LoadPayload reads and decodes a body file. "-" reads stdin.
func LoadPayload(path string) (any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload file: %w", err)
	}
	return DecodePayload(raw, filepath.Ext(path))
}
