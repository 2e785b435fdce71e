package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"llamactl/pkg/types"
)

// Store appends terminal run transitions to a JSONL history file. One line
// per record, append-only; failures here are bookkeeping problems and the
// caller treats them as diagnostics.
type Store struct {
	path string
}

// NewStore returns a history store rooted in stateDir.
func NewStore(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, "history.jsonl")}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Append writes one record to the end of the history file.
func (s *Store) Append(rec types.HistoryRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first. A missing file yields an
// empty slice. Unparseable lines are skipped.
func (s *Store) Recent(n int) ([]types.HistoryRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	var all []types.HistoryRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec types.HistoryRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			continue
		}
		all = append(all, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	// newest first
	out := make([]types.HistoryRecord, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
