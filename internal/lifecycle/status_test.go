package lifecycle

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"llamactl/pkg/types"
)

func TestStatusHumanEmpty(t *testing.T) {
	m := newTestManager(t)
	var buf bytes.Buffer
	if err := m.Status(&buf, false); err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(buf.String(), "No servers tracked.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestStatusHumanGroups(t *testing.T) {
	m := newTestManager(t)
	m.MarkRunning("old", 9000, types.ModeForeground)
	m.MarkStopped("old", 2)
	m.MarkRunning("live", 9001, types.ModeDaemon)
	m.UpdatePID("live", 4321)

	var buf bytes.Buffer
	if err := m.Status(&buf, false); err != nil {
		t.Fatalf("status: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Running:") || !strings.Contains(out, "live") {
		t.Fatalf("running section missing: %q", out)
	}
	if !strings.Contains(out, "Recently stopped:") || !strings.Contains(out, "old") {
		t.Fatalf("stopped section missing: %q", out)
	}
	if !strings.Contains(out, "4321") {
		t.Fatalf("pid not rendered: %q", out)
	}
}

func TestStatusHumanCapsStoppedAtFive(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 7; i++ {
		model := fmt.Sprintf("m%d", i)
		m.MarkRunning(model, 9000+i, types.ModeForeground)
		m.MarkStopped(model, 0)
	}
	var buf bytes.Buffer
	if err := m.Status(&buf, false); err != nil {
		t.Fatalf("status: %v", err)
	}
	out := buf.String()
	shown := 0
	for i := 0; i < 7; i++ {
		if strings.Contains(out, fmt.Sprintf("m%d", i)) {
			shown++
		}
	}
	if shown != maxRecentStopped {
		t.Fatalf("expected %d stopped entries shown, got %d: %q", maxRecentStopped, shown, out)
	}
	// newest first: the last stopped model must be visible
	if !strings.Contains(out, "m6") {
		t.Fatalf("newest stopped entry missing: %q", out)
	}
}
