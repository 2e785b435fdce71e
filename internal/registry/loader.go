package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"llamactl/internal/common/fsutil"
	"llamactl/pkg/types"
)

// LoadDir scans a directory for *.gguf files and builds a registry from
// filenames. ID is the filename without its extension; Path is the absolute
// file path. Entries are sorted by ID for stable output.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() { continue }
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") { continue }
		id := name[:len(name)-len(".gguf")]
		p := filepath.Join(abs, name)
		models = append(models, types.Model{ID: id, Name: id, Path: p})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// IDs returns the identifiers of all models, in registry order.
func IDs(models []types.Model) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		out = append(out, m.ID)
	}
	return out
}
