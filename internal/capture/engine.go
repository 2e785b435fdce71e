package capture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"llamactl/internal/common/fsutil"
	"llamactl/internal/config"
	"llamactl/internal/gguf"
	"llamactl/internal/history"
	"llamactl/internal/lifecycle"
	"llamactl/internal/registry"
	"llamactl/pkg/types"
)

// Engine drives one foreground llama-server invocation end to end: build the
// command line, stream combined output line by line, filter and bound what
// is retained, trigger best-effort PID discovery, and finalize captured
// metadata and run history on every exit path.
//
// The engine is synchronous throughout: the calling goroutine blocks on each
// line read, and that read is the only suspension point.
type Engine struct {
	cfg   config.Config
	mgr   *lifecycle.Manager
	infos *InfoStore
	hist  *history.Store
	log   zerolog.Logger

	// echo target; every subprocess line goes here immediately regardless
	// of capture state
	stdout io.Writer

	// seams for tests
	readTags  func(path, key string) []string
	pidByPort func(port int) int
}

// NewEngine wires an Engine against the lifecycle manager's state directory.
func NewEngine(cfg config.Config, mgr *lifecycle.Manager, hist *history.Store, log zerolog.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		mgr:       mgr,
		infos:     NewInfoStore(mgr.StateDir()),
		hist:      hist,
		log:       log,
		stdout:    os.Stdout,
		readTags:  gguf.ReadNamedArray,
		pidByPort: lifecycle.PIDByPort,
	}
}

// Infos exposes the run-info store (read-side consumers such as the HTTP
// API use it).
func (e *Engine) Infos() *InfoStore { return e.infos }

// run holds the per-invocation state machine. States: preparing ->
// streaming -> finalizing -> terminal; finalize runs exactly once on every
// exit path.
type run struct {
	e       *Engine
	model   types.Model
	port    int
	args    []string
	started time.Time

	lines       []string
	bytes       int
	captureDone bool
	pidProbed   bool
	interim     bool
	finalized   bool
}

// Run executes one foreground run and returns the exit code to surface to
// the caller: 0 on clean exit, the subprocess's own code on non-zero exit,
// 130 on interruption, 1 on any other error (returned alongside the error).
func (e *Engine) Run(model types.Model, port int, extra []string) (int, error) {
	// preparing
	if !fsutil.PathExists(model.Path) {
		return 1, fmt.Errorf("model file missing: %s\n%s", model.Path, availableHint(e.cfg.ModelsDir))
	}
	r := &run{
		e:       e,
		model:   model,
		port:    port,
		args:    BuildArgs(e.cfg, model, port, extra),
		started: time.Now().UTC(),
	}
	e.mgr.MarkRunning(model.ID, port, types.ModeForeground)

	// Whatever path leaves Run, captured metadata and history must land.
	defer r.finalize(types.EndError, 1)

	// streaming
	pr, pw, err := os.Pipe()
	if err != nil {
		return 1, err
	}
	cmd := exec.Command(e.cfg.ServerBin, r.args...)
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		r.finalize(types.EndError, 1)
		return 1, fmt.Errorf("spawn %s: %w", e.cfg.ServerBin, err)
	}
	_ = pw.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	sc := bufio.NewScanner(pr)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		fmt.Fprintln(e.stdout, line)
		r.observe(line)
	}
	scanErr := sc.Err()
	_ = pr.Close()

	waitErr := cmd.Wait()
	interrupted := false
	select {
	case <-sigCh:
		interrupted = true
	default:
	}

	// finalizing
	switch {
	case interrupted:
		r.finalize(types.EndSigint, 130)
		return 130, nil
	case scanErr != nil:
		r.finalize(types.EndError, 1)
		return 1, fmt.Errorf("read server output: %w", scanErr)
	case waitErr == nil:
		r.finalize(types.EndExit, 0)
		return 0, nil
	default:
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) && ee.ExitCode() > 0 {
			code := ee.ExitCode()
			r.finalize(types.EndExit, code)
			return code, nil
		}
		r.finalize(types.EndError, 1)
		return 1, waitErr
	}
}

// observe evaluates one echoed line for capture. Capture stops permanently
// at the line or byte ceiling; echo is unaffected.
func (r *run) observe(line string) {
	if r.captureDone || !matchesCapture(line) {
		return
	}
	stored := summarizeArrays(line)
	if len(r.lines) >= maxCaptureLines || r.bytes+len(stored) > maxCaptureBytes {
		r.captureDone = true
		return
	}
	r.lines = append(r.lines, stored)
	r.bytes += len(stored)

	if !r.pidProbed && len(r.lines) >= pidProbeAfterLines {
		// at most once per run
		r.pidProbed = true
		if pid := r.e.pidByPort(r.port); pid > 0 {
			r.e.mgr.UpdatePID(r.model.ID, pid)
		}
	}
	if !r.interim && len(r.lines) >= interimWriteAfterLines {
		r.interim = true
		info := r.buildInfo(true, "", 0)
		if err := r.e.infos.Save(info); err != nil {
			r.e.log.Warn().Err(err).Str("model", r.model.ID).Msg("interim run info write failed")
		}
	}
}

// finalize runs exactly once: persist captured metadata (when any lines were
// captured), mark the entry stopped, and append the terminal history record.
func (r *run) finalize(reason types.EndReason, exitCode int) {
	if r.finalized {
		return
	}
	r.finalized = true

	if len(r.lines) > 0 {
		partial := reason != types.EndExit || exitCode != 0
		info := r.buildInfo(partial, reason, exitCode)
		r.e.recoverTags(&info)
		if err := r.e.infos.Save(info); err != nil {
			r.e.log.Warn().Err(err).Str("model", r.model.ID).Msg("run info write failed")
		}
	}
	r.e.mgr.MarkStopped(r.model.ID, exitCode)

	rec := types.HistoryRecord{
		Model:     r.model.ID,
		Status:    historyStatus(reason, exitCode),
		ExitCode:  exitCode,
		StartedAt: r.started,
		EndedAt:   time.Now().UTC(),
	}
	if err := r.e.hist.Append(rec); err != nil {
		r.e.log.Warn().Err(err).Str("model", r.model.ID).Msg("history append failed")
	}
}

func historyStatus(reason types.EndReason, exitCode int) string {
	switch {
	case reason == types.EndSigint:
		return "interrupted"
	case reason == types.EndExit && exitCode == 0:
		return "exited"
	default:
		return "failed"
	}
}

func (r *run) buildInfo(partial bool, reason types.EndReason, exitCode int) types.CapturedRunInfo {
	info := types.CapturedRunInfo{
		Model:         r.model.ID,
		GGUFPath:      r.model.Path,
		CapturedLines: append([]string(nil), r.lines...),
		KV:            parseKVLines(r.lines),
		IsPartial:     partial,
		EndReason:     reason,
		ExitCode:      exitCode,
		WrittenAt:     time.Now().UTC(),
	}
	if st, err := os.Stat(r.model.Path); err == nil {
		info.GGUFSizeBytes = st.Size()
		info.GGUFMtime = st.ModTime().UTC()
	}
	info.Derived = computeDerived(info.KV, r.args)
	return info
}

// recoverTags re-reads general.tags from the model file when the textual
// capture lost or truncated it.
func (e *Engine) recoverTags(info *types.CapturedRunInfo) {
	if v, ok := info.KV[tagsKey]; ok && v.Kind == types.KVArray {
		return
	}
	tags := e.readTags(info.GGUFPath, tagsKey)
	if tags == nil {
		return
	}
	info.KV[tagsKey] = types.ArrayValue(tags)
}

func availableHint(modelsDir string) string {
	models, err := registry.LoadDir(modelsDir)
	if err != nil || len(models) == 0 {
		return "no models found in " + modelsDir
	}
	return "available models: " + strings.Join(registry.IDs(models), ", ")
}
