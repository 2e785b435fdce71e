package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func writeModels(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(""), 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
}

func TestLoadDirFiltersGGUF(t *testing.T) {
	dir := t.TempDir()
	writeModels(t, dir, "a.gguf", "b.GGUF", "not-model.txt", "model.bin")
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if models[0].ID != "a" || models[1].ID != "b" {
		t.Fatalf("unexpected ids: %v", IDs(models))
	}
	if models[0].Path != filepath.Join(dir, "a.gguf") {
		t.Fatalf("unexpected path: %s", models[0].Path)
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
