package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// OverrideRule adds extra llama-server arguments to every model whose id
// matches Pattern (case-insensitive substring).
type OverrideRule struct {
	Pattern string   `json:"pattern" yaml:"pattern" toml:"pattern"`
	Args    []string `json:"args" yaml:"args" toml:"args"`
}

// Config holds runtime parameters for the CLI.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	ServerBin   string         `json:"server_bin" yaml:"server_bin" toml:"server_bin"`
	ModelsDir   string         `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	StateDir    string         `json:"state_dir" yaml:"state_dir" toml:"state_dir"`
	Host        string         `json:"host" yaml:"host" toml:"host"`
	DefaultPort int            `json:"default_port" yaml:"default_port" toml:"default_port"`
	DefaultArgs []string       `json:"default_args" yaml:"default_args" toml:"default_args"`
	Overrides   []OverrideRule `json:"overrides" yaml:"overrides" toml:"overrides"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ArgsFor returns the extra arguments from every override rule matching the
// model id, in rule order. Later rules land later on the command line, so
// they win when the server parses duplicate flags.
func (c Config) ArgsFor(model string) []string {
	lower := strings.ToLower(model)
	var out []string
	for _, rule := range c.Overrides {
		if rule.Pattern == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(rule.Pattern)) {
			out = append(out, rule.Args...)
		}
	}
	return out
}
