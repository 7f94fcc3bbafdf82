package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sameehj/scriptkit/pkg/globals"
)

// Extension marks a file as a runnable script.
const Extension = ".star"

// ScriptsDir is the workspace directory scanned by default.
const ScriptsDir = "scripts"

// Entry is one script found in a catalog directory.
type Entry struct {
	Name string
	Path string
	// Globals is nil when the script does not parse; Err says why.
	Globals *globals.Map
	Err     error
}

type Registry struct {
	baseDir string
}

func NewRegistry(dir string) *Registry {
	return &Registry{baseDir: dir}
}

// Resolve returns the workspace root: SCRIPTKIT_WORKSPACE when set,
// otherwise the working directory.
func Resolve() string {
	if ws := os.Getenv("SCRIPTKIT_WORKSPACE"); ws != "" {
		return ws
	}
	pwd, _ := os.Getwd()
	return pwd
}

// DefaultDir is the scripts directory of the resolved workspace.
func DefaultDir() string {
	return filepath.Join(Resolve(), ScriptsDir)
}

// List returns the scripts directly under the registry directory, sorted by
// name, each with its extracted globals. A missing directory lists nothing.
func (r *Registry) List() ([]Entry, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	out := []Entry{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), Extension) {
			continue
		}
		path := r.ScriptPath(entry.Name())
		m, err := globals.Extract(path)
		out = append(out, Entry{
			Name:    Normalize(entry.Name()),
			Path:    path,
			Globals: m,
			Err:     err,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Registry) ScriptPath(name string) string {
	if !strings.EqualFold(filepath.Ext(name), Extension) {
		name += Extension
	}
	return filepath.Join(r.baseDir, name)
}

func (r *Registry) Exists(name string) bool {
	info, err := os.Stat(r.ScriptPath(name))
	return err == nil && !info.IsDir()
}

// Normalize maps a file or script name to its catalog name.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if strings.EqualFold(filepath.Ext(name), Extension) {
		name = name[:len(name)-len(Extension)]
	}
	return strings.ToLower(name)
}
