package lifecycle

import (
	"sort"
	"syscall"
	"time"

	"llamactl/pkg/types"
)

// StopOne stops the process behind a tracked entry. PID resolution priority:
// the dedicated PID file, then the PID recorded in the entry, then a live
// lookup by port. The process gets SIGTERM, a fixed grace interval, a
// liveness probe, and SIGKILL only if still alive.
//
// The entry is always marked stopped, even when no PID resolves or signal
// delivery fails: state tracking is best-effort and must not leave the
// tracker believing a process is running after the caller asked to stop it.
// An unresolvable PID is reported via a noPID error.
func (m *Manager) StopOne(entry types.RunEntry) error {
	model := entry.Model
	pid := 0
	if p, ok := m.readPIDFile(model); ok {
		pid = p
	}
	if pid == 0 && entry.PID != nil {
		pid = *entry.PID
	}
	if pid == 0 && entry.Port != nil {
		pid = PIDByPort(*entry.Port)
	}
	if pid <= 0 {
		m.removePIDFile(model)
		m.MarkStopped(model, 0)
		return noPIDError{model: model}
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		m.log.Warn().Err(err).Int("pid", pid).Str("model", model).Msg("terminate signal failed")
	}
	time.Sleep(m.grace)
	if syscall.Kill(pid, 0) == nil {
		m.log.Debug().Int("pid", pid).Str("model", model).Msg("still alive after grace interval, escalating")
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
	m.removePIDFile(model)
	m.MarkStopped(model, 0)
	return nil
}

// StopAll applies StopOne to every running entry independently; a failure on
// one entry does not abort the others. Returns the success count and a
// per-model failure map.
func (m *Manager) StopAll() (int, map[string]error) {
	doc := m.loadDoc()
	failed := make(map[string]error)
	stopped := 0
	for _, e := range doc.Servers {
		if e.State != types.StateRunning {
			continue
		}
		if err := m.StopOne(e); err != nil {
			failed[e.Model] = err
			continue
		}
		stopped++
	}
	return stopped, failed
}

// FailedModels returns the sorted model names from a StopAll failure map.
func FailedModels(failed map[string]error) []string {
	out := make([]string, 0, len(failed))
	for model := range failed {
		out = append(out, model)
	}
	sort.Strings(out)
	return out
}
