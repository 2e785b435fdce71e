package lifecycle

import (
	"encoding/json"
	"fmt"
	"os"

	"llamactl/internal/common/fsutil"
	"llamactl/pkg/types"
)

// stateStore persists the state document as a whole. Every mutation is a
// read-modify-write of the full file; the final write is atomic so a reader
// never observes a half-written document.
type stateStore struct {
	path string
}

func (s *stateStore) load() (types.StateDocument, error) {
	doc := types.StateDocument{Version: types.StateVersion}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return types.StateDocument{Version: types.StateVersion}, fmt.Errorf("decode state: %w", err)
	}
	if doc.Version == "" {
		doc.Version = types.StateVersion
	}
	return doc, nil
}

func (s *stateStore) save(doc types.StateDocument) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return fsutil.AtomicWriteFile(s.path, append(b, '\n'), 0o644)
}
