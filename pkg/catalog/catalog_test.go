package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListScripts(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"Update.star": "repos = ['a']\n",
		"broken.star": "x = (\n",
		"notes.txt":   "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.star"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	reg := NewRegistry(dir)
	entries, err := reg.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 scripts, got %+v", entries)
	}
	if entries[0].Name != "broken" || entries[0].Err == nil {
		t.Fatalf("expected broken script with parse error, got %+v", entries[0])
	}
	if entries[1].Name != "update" || entries[1].Err != nil {
		t.Fatalf("expected update script, got %+v", entries[1])
	}
	if !entries[1].Globals.Has("repos") {
		t.Fatalf("expected repos global, got %v", entries[1].Globals.Names())
	}
	if !reg.Exists("Update") {
		t.Fatalf("expected Update to exist")
	}
	if reg.Exists("nested") {
		t.Fatalf("directories are not scripts")
	}
}

func TestListMissingDir(t *testing.T) {
	entries, err := NewRegistry(filepath.Join(t.TempDir(), "none")).List()
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty listing, got %v %v", entries, err)
	}
}

func TestResolveUsesEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCRIPTKIT_WORKSPACE", dir)
	if got := DefaultDir(); got != filepath.Join(dir, ScriptsDir) {
		t.Fatalf("expected %q, got %q", filepath.Join(dir, ScriptsDir), got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Deploy.STAR "); got != "deploy" {
		t.Fatalf("expected deploy, got %q", got)
	}
}
