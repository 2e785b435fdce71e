package lifecycle

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"llamactl/internal/common/fsutil"
	"llamactl/pkg/types"
)

// Manager owns all state transitions for tracked llama-server runs. It is
// the only component that touches the state file; other tools may read it.
// State file I/O problems are reported as diagnostics and never affect the
// tracked subprocess itself.
type Manager struct {
	stateDir string
	store    *stateStore
	log      zerolog.Logger

	// grace is the interval between SIGTERM and the liveness probe that
	// decides whether to escalate to SIGKILL.
	grace time.Duration
	// settle is the wait between a detached spawn and the PID file read.
	settle time.Duration
}

// New returns a Manager rooted at stateDir.
func New(stateDir string, log zerolog.Logger) *Manager {
	return &Manager{
		stateDir: stateDir,
		store:    &stateStore{path: filepath.Join(stateDir, "state.json")},
		log:      log,
		grace:    2 * time.Second,
		settle:   300 * time.Millisecond,
	}
}

// StatePath returns the path of the state document.
func (m *Manager) StatePath() string { return m.store.path }

// StateDir returns the directory holding state, pid, log and metadata files.
func (m *Manager) StateDir() string { return m.stateDir }

// LogPath returns the daemon log file path for a model.
func (m *Manager) LogPath(model string) string {
	return filepath.Join(m.stateDir, "logs", fsutil.SanitizeName(model)+".log")
}

// loadDoc reads the state document, degrading to an empty one on I/O errors.
func (m *Manager) loadDoc() types.StateDocument {
	doc, err := m.store.load()
	if err != nil {
		m.log.Warn().Err(err).Str("path", m.store.path).Msg("state read failed, starting from empty document")
	}
	return doc
}

// saveDoc writes the state document, reporting failures as diagnostics only.
func (m *Manager) saveDoc(doc types.StateDocument) {
	if err := m.store.save(doc); err != nil {
		m.log.Warn().Err(err).Str("path", m.store.path).Msg("state write failed")
	}
}

// MarkRunning evicts any prior entries for model and inserts a fresh running
// entry at the head of the list, with PID unset. last_used is updated here
// and nowhere else.
func (m *Manager) MarkRunning(model string, port int, mode types.Mode) types.RunEntry {
	doc := m.loadDoc()
	kept := make([]types.RunEntry, 0, len(doc.Servers))
	for _, e := range doc.Servers {
		if e.Model != model {
			kept = append(kept, e)
		}
	}
	entry := types.RunEntry{
		Model:     model,
		Mode:      mode,
		State:     types.StateRunning,
		StartedAt: time.Now().UTC(),
	}
	if port > 0 {
		p := port
		entry.Port = &p
	}
	if mode == types.ModeDaemon {
		entry.LogFile = m.LogPath(model)
	}
	doc.Servers = append([]types.RunEntry{entry}, kept...)
	doc.LastUsed = model
	m.saveDoc(doc)
	return entry
}

// UpdatePID patches the PID of the running entry for model. No-op when none
// is running.
func (m *Manager) UpdatePID(model string, pid int) {
	if pid <= 0 {
		return
	}
	doc := m.loadDoc()
	for i := range doc.Servers {
		if doc.Servers[i].Model == model && doc.Servers[i].State == types.StateRunning {
			p := pid
			doc.Servers[i].PID = &p
			m.saveDoc(doc)
			return
		}
	}
}

// MarkStopped transitions the running entry for model to stopped, stamping
// stopped_at and exit_code. Idempotent: no-op when already stopped or absent.
func (m *Manager) MarkStopped(model string, exitCode int) {
	doc := m.loadDoc()
	for i := range doc.Servers {
		if doc.Servers[i].Model == model && doc.Servers[i].State == types.StateRunning {
			now := time.Now().UTC()
			code := exitCode
			doc.Servers[i].State = types.StateStopped
			doc.Servers[i].StoppedAt = &now
			doc.Servers[i].ExitCode = &code
			m.saveDoc(doc)
			return
		}
	}
}

// IsRunning returns a copy of the running entry for model, or nil.
func (m *Manager) IsRunning(model string) *types.RunEntry {
	doc := m.loadDoc()
	for i := range doc.Servers {
		if doc.Servers[i].Model == model && doc.Servers[i].State == types.StateRunning {
			e := doc.Servers[i]
			return &e
		}
	}
	return nil
}

// Document returns the current state document as a read-only snapshot.
func (m *Manager) Document() types.StateDocument {
	return m.loadDoc()
}
