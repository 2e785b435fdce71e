package capture

import (
	"reflect"
	"testing"

	"llamactl/internal/config"
	"llamactl/pkg/types"
)

func TestBuildArgsOrder(t *testing.T) {
	cfg := config.Config{
		Host:        "0.0.0.0",
		DefaultArgs: []string{"-c", "4096"},
		Overrides: []config.OverrideRule{
			{Pattern: "tiny", Args: []string{"-ngl", "0"}},
		},
	}
	model := types.Model{ID: "tiny", Path: "/models/tiny.gguf"}
	got := BuildArgs(cfg, model, 8080, []string{"-c", "8192"})
	want := []string{
		"-m", "/models/tiny.gguf",
		"--host", "0.0.0.0",
		"--port", "8080",
		"-c", "4096",
		"-ngl", "0",
		"-c", "8192",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildArgsDefaults(t *testing.T) {
	model := types.Model{ID: "m", Path: "/m.gguf"}
	got := BuildArgs(config.Config{}, model, 0, nil)
	want := []string{"-m", "/m.gguf", "--host", "127.0.0.1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDaemonCommandPrependsBinary(t *testing.T) {
	cfg := config.Config{ServerBin: "/usr/bin/llama-server"}
	model := types.Model{ID: "m", Path: "/m.gguf"}
	got := DaemonCommand(cfg, model, 9000, nil)
	if got[0] != "/usr/bin/llama-server" {
		t.Fatalf("binary not first: %v", got)
	}
	if !reflect.DeepEqual(got[1:], BuildArgs(cfg, model, 9000, nil)) {
		t.Fatalf("argument tail diverged: %v", got)
	}
}
