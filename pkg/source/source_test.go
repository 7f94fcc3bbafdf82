package source

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadStripsUTF8BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.star")
	if err := os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, "x = 1\n"...), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	data, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "x = 1\n" {
		t.Fatalf("expected BOM to be stripped, got %q", data)
	}
}

func TestReadDecodesUTF16(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utf16.star")
	// "a = 1\n" in UTF-16LE with BOM.
	raw := []byte{0xFF, 0xFE, 'a', 0, ' ', 0, '=', 0, ' ', 0, '1', 0, '\n', 0}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	data, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "a = 1\n" {
		t.Fatalf("unexpected decoded source %q", data)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.star"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestParseAllowsTopLevelControl(t *testing.T) {
	src := "total = 0\nfor i in range(3):\n    total += i\nif total:\n    total = total\n"
	if _, err := Parse("top.star", []byte(src)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
}

func TestParseReportsPosition(t *testing.T) {
	_, err := Parse("broken.star", []byte("x = (\n"))
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	if !strings.Contains(err.Error(), "broken.star") {
		t.Fatalf("expected file name in error, got %v", err)
	}
}
