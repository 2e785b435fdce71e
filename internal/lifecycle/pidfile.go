package lifecycle

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"llamactl/internal/common/fsutil"
)

// PIDFilePath returns the dedicated PID file for a model. One plain-text
// integer, path derived deterministically from the sanitized model name.
func (m *Manager) PIDFilePath(model string) string {
	return filepath.Join(m.stateDir, "pids", fsutil.SanitizeName(model)+".pid")
}

func (m *Manager) writePIDFile(model string, pid int) error {
	path := m.PIDFilePath(model)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o644)
}

// readPIDFile returns the recorded PID, or (0, false) when the file is
// missing or unparseable.
func (m *Manager) readPIDFile(model string) (int, bool) {
	b, err := os.ReadFile(m.PIDFilePath(model))
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func (m *Manager) removePIDFile(model string) {
	_ = os.Remove(m.PIDFilePath(model))
}
