package capture

import (
	"strconv"

	"llamactl/internal/config"
	"llamactl/pkg/types"
)

// BuildArgs assembles the llama-server argument vector: model path and
// network flags first, then configured defaults, then per-model overrides,
// then caller-supplied extras. Later flags win when the server parses
// duplicates, so caller extras have the highest priority.
func BuildArgs(cfg config.Config, model types.Model, port int, extra []string) []string {
	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	args := []string{"-m", model.Path, "--host", host}
	if port > 0 {
		args = append(args, "--port", strconv.Itoa(port))
	}
	args = append(args, cfg.DefaultArgs...)
	args = append(args, cfg.ArgsFor(model.ID)...)
	args = append(args, extra...)
	return args
}

// DaemonCommand is the full detached-launch command line including the
// server binary itself.
func DaemonCommand(cfg config.Config, model types.Model, port int, extra []string) []string {
	return append([]string{cfg.ServerBin}, BuildArgs(cfg, model, port, extra)...)
}
