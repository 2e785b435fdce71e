package lifecycle

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"llamactl/pkg/types"
)

// LaunchDetached spawns command fully detached from the controlling terminal
// with combined output appended to the model's log file, writes the PID file,
// and after a short settle delay reads the PID back and records it. The entry
// is marked running before the spawn so a crash before PID capture still
// leaves discoverable state.
//
// Fails fast with a conflict error when the model is already tracked running;
// no process is spawned in that case. A failed spawn marks the entry stopped
// with exit code 1.
func (m *Manager) LaunchDetached(model string, command []string, port int) (int, string, error) {
	if e := m.IsRunning(model); e != nil {
		return 0, "", launchConflictError{model: model}
	}
	if len(command) == 0 {
		return 0, "", spawnFailureError{err: errors.New("empty command")}
	}

	logPath := m.LogPath(model)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return 0, "", spawnFailureError{err: err}
	}
	// truncated at each new launch of this model
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, "", spawnFailureError{err: err}
	}

	m.MarkRunning(model, port, types.ModeDaemon)

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		m.MarkStopped(model, 1)
		return 0, "", spawnFailureError{err: err}
	}
	_ = logFile.Close()

	pid := cmd.Process.Pid
	if err := m.writePIDFile(model, pid); err != nil {
		m.log.Warn().Err(err).Str("model", model).Msg("pid file write failed")
	}
	// fire-and-forget: the detached process is not supervised afterward
	_ = cmd.Process.Release()

	time.Sleep(m.settle)
	resolved, ok := m.readPIDFile(model)
	if !ok {
		m.log.Warn().Str("model", model).Msg("pid file unreadable after launch, falling back to spawn pid")
		resolved = pid
	}
	m.UpdatePID(model, resolved)
	return resolved, logPath, nil
}
