package lifecycle

import (
	"os/exec"
	"syscall"
	"testing"

	"llamactl/pkg/types"
)

func TestStopOneNoPIDStillMarksStopped(t *testing.T) {
	m := newTestManager(t)
	entry := m.MarkRunning("a", 0, types.ModeForeground)

	err := m.StopOne(entry)
	if err == nil || !IsNoPID(err) {
		t.Fatalf("expected noPID error, got %v", err)
	}
	if e := m.IsRunning("a"); e != nil {
		t.Fatalf("entry must be stopped even without a PID, got %+v", e)
	}
}

func TestStopOneSignalsTrackedPID(t *testing.T) {
	m := newTestManager(t)
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	pid := cmd.Process.Pid
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	m.MarkRunning("a", 0, types.ModeForeground)
	m.UpdatePID("a", pid)
	entry := m.IsRunning("a")
	if entry == nil {
		t.Fatalf("expected running entry")
	}

	if err := m.StopOne(*entry); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if e := m.IsRunning("a"); e != nil {
		t.Fatalf("expected stopped, got %+v", e)
	}
	// the sleep must have received SIGTERM
	state, err := cmd.Process.Wait()
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		t.Fatalf("expected signal-terminated process, got %v", state)
	}
}

func TestStopOnePrefersPIDFile(t *testing.T) {
	m := newTestManager(t)
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	pid := cmd.Process.Pid
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	m.MarkRunning("a", 0, types.ModeDaemon)
	// entry PID stays null; only the pid file knows the process
	if err := m.writePIDFile("a", pid); err != nil {
		t.Fatalf("write pid file: %v", err)
	}
	entry := m.IsRunning("a")
	if err := m.StopOne(*entry); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, ok := m.readPIDFile("a"); ok {
		t.Fatalf("pid file must be removed after stop")
	}
	if e := m.IsRunning("a"); e != nil {
		t.Fatalf("expected stopped entry")
	}
}

func TestStopAllIndependent(t *testing.T) {
	m := newTestManager(t)
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	m.MarkRunning("with-pid", 0, types.ModeForeground)
	m.UpdatePID("with-pid", cmd.Process.Pid)
	m.MarkRunning("no-pid", 0, types.ModeForeground)
	m.MarkRunning("already-stopped", 0, types.ModeForeground)
	m.MarkStopped("already-stopped", 0)

	stopped, failed := m.StopAll()
	if stopped != 1 {
		t.Fatalf("expected 1 success, got %d", stopped)
	}
	if len(failed) != 1 || !IsNoPID(failed["no-pid"]) {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if got := FailedModels(failed); len(got) != 1 || got[0] != "no-pid" {
		t.Fatalf("unexpected failed models: %v", got)
	}
	// all running entries must be stopped regardless of failures
	for _, model := range []string{"with-pid", "no-pid", "already-stopped"} {
		if e := m.IsRunning(model); e != nil {
			t.Fatalf("%s still running: %+v", model, e)
		}
	}
}

func TestStopAllEmpty(t *testing.T) {
	m := newTestManager(t)
	stopped, failed := m.StopAll()
	if stopped != 0 || len(failed) != 0 {
		t.Fatalf("expected nothing to stop, got %d / %v", stopped, failed)
	}
}
