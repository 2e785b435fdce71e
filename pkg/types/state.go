package types

import "time"

// StateVersion is the schema version written into every state document.
const StateVersion = "1.0"

// Mode describes how a tracked server was launched.
type Mode string

const (
	ModeForeground Mode = "foreground"
	ModeDaemon     Mode = "daemon"
)

// RunState is the lifecycle state of a tracked server entry.
type RunState string

const (
	StateRunning RunState = "running"
	StateStopped RunState = "stopped"
)

// RunEntry records one tracked llama-server run. At most one entry per model
// may be in state "running" at any time.
type RunEntry struct {
	// Model identifier, no path or extension.
	// example: tinyllama-q4
	Model string `json:"model" example:"tinyllama-q4"`
	// Listen port, null when unknown.
	Port *int `json:"port"`
	// Process id, null when not yet discovered.
	PID *int `json:"pid"`
	// Launch mode: foreground or daemon.
	Mode Mode `json:"mode" example:"daemon"`
	// Path to the combined stdout/stderr log. Daemon mode only.
	LogFile string `json:"log_file,omitempty"`
	// running or stopped.
	State RunState `json:"state" example:"running"`
	// Creation time of this entry.
	StartedAt time.Time `json:"started_at"`
	// Terminal time, set once stopped.
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
	// Subprocess exit code, set once stopped.
	ExitCode *int `json:"exit_code,omitempty"`
}

// StateDocument is the on-disk state file. It is a discovery aid for other
// tools, not a source of truth for process liveness.
type StateDocument struct {
	Version string `json:"version"`
	// Model identifier of the most recent launch.
	LastUsed string `json:"last_used"`
	// Tracked runs, most recent first.
	Servers []RunEntry `json:"servers"`
}
