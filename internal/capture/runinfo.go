package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"llamactl/internal/common/fsutil"
	"llamactl/pkg/types"
)

// InfoStore persists CapturedRunInfo documents, one JSON file per model,
// keyed by sanitized model name. Documents survive across runs and are
// overwritten by each new run.
type InfoStore struct {
	dir string
}

// NewInfoStore returns an InfoStore rooted under stateDir.
func NewInfoStore(stateDir string) *InfoStore {
	return &InfoStore{dir: filepath.Join(stateDir, "runinfo")}
}

// Path returns the document path for a model.
func (s *InfoStore) Path(model string) string {
	return filepath.Join(s.dir, fsutil.SanitizeName(model)+".json")
}

// Save writes a document atomically.
func (s *InfoStore) Save(info types.CapturedRunInfo) error {
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run info: %w", err)
	}
	return fsutil.AtomicWriteFile(s.Path(info.Model), append(b, '\n'), 0o644)
}

// Load reads the document for a model.
func (s *InfoStore) Load(model string) (types.CapturedRunInfo, error) {
	var info types.CapturedRunInfo
	b, err := os.ReadFile(s.Path(model))
	if err != nil {
		return info, err
	}
	if err := json.Unmarshal(b, &info); err != nil {
		return info, fmt.Errorf("decode run info: %w", err)
	}
	return info, nil
}

// Stale reports whether the stored fingerprint no longer matches the model
// file on disk.
func Stale(info types.CapturedRunInfo) bool {
	st, err := os.Stat(info.GGUFPath)
	if err != nil {
		return true
	}
	return st.Size() != info.GGUFSizeBytes || !st.ModTime().UTC().Equal(info.GGUFMtime)
}
