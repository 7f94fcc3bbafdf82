package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "FOO=bar\n# comment\nexport BAZ=\"qux # kept\"\nPLAIN=value # note\nnoequals\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	for _, key := range []string{"FOO", "BAZ", "PLAIN"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 keys loaded, got %v", loaded)
	}
	if got := os.Getenv("FOO"); got != "bar" {
		t.Fatalf("expected FOO=bar, got %q", got)
	}
	if got := os.Getenv("BAZ"); got != "qux # kept" {
		t.Fatalf("expected quoted value kept verbatim, got %q", got)
	}
	if got := os.Getenv("PLAIN"); got != "value" {
		t.Fatalf("expected trailing comment stripped, got %q", got)
	}
}

func TestLoadDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FOO=bar\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("FOO", "existing")
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected nothing loaded, got %v", loaded)
	}
	if got := os.Getenv("FOO"); got != "existing" {
		t.Fatalf("expected existing value preserved, got %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), ".env"))
	if err != nil || loaded != nil {
		t.Fatalf("expected missing file to be ignored, got %v %v", loaded, err)
	}
}
