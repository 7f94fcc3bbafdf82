package source

import (
	"fmt"
	"io"
	"os"

	"go.starlark.net/syntax"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Options returns the dialect scripts are parsed with. Top-level control
// flow and rebinding of globals are allowed so that scripts read like
// ordinary Python modules.
func Options() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}

// Read loads the script at path as UTF-8. A leading byte order mark selects
// the encoding and is dropped.
func Read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	defer f.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(f, decoder))
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return data, nil
}

// Parse parses src with the script dialect.
func Parse(path string, src []byte) (*syntax.File, error) {
	return Options().Parse(path, src, 0)
}
