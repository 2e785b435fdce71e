package lifecycle

// launchConflictError signals a detached start refused because another
// instance is already tracked running for the model.
type launchConflictError struct{ model string }

func (e launchConflictError) Error() string {
	return "model already running: " + e.model + " (stop it first)"
}

// IsLaunchConflict reports whether err indicates an already-running model.
func IsLaunchConflict(err error) bool {
	_, ok := err.(launchConflictError)
	return ok
}

// spawnFailureError signals that the subprocess could not be created.
type spawnFailureError struct{ err error }

func (e spawnFailureError) Error() string { return "spawn server: " + e.err.Error() }
func (e spawnFailureError) Unwrap() error { return e.err }

// IsSpawnFailure reports whether err indicates a failed subprocess spawn.
func IsSpawnFailure(err error) bool {
	_, ok := err.(spawnFailureError)
	return ok
}

// noPIDError signals that no PID could be resolved to signal. The entry is
// still marked stopped so the tracker cannot get stuck.
type noPIDError struct{ model string }

func (e noPIDError) Error() string { return "no PID found for " + e.model }

// IsNoPID reports whether err indicates an unresolvable PID.
func IsNoPID(err error) bool {
	_, ok := err.(noPIDError)
	return ok
}
