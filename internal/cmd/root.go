package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"llamactl/internal/common/fsutil"
	"llamactl/internal/config"
	"llamactl/internal/history"
	"llamactl/internal/lifecycle"
	"llamactl/internal/registry"
	"llamactl/pkg/types"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "llamactl",
	Short: "llamactl - manage local llama-server instances",
	Long: `llamactl launches and supervises llama-server processes for local GGUF models.

Run a server in the foreground with output capture:
  llamactl run qwen

Launch in the background:
  llamactl start qwen --port 8080

Inspect and stop:
  llamactl status
  llamactl stop qwen
  llamactl stop --all`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", envStr("LLAMACTL_CONFIG", ""), "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envStr("LLAMACTL_LOG_LEVEL", "info"), "log level: debug|info|warn|error")
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// app bundles the wired subsystems every command needs.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	mgr    *lifecycle.Manager
	hist   *history.Store
	models []types.Model
}

func newApp() (*app, error) {
	log := newLogger()
	cfg, err := loadConfig(log)
	if err != nil {
		return nil, err
	}

	models, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.ModelsDir).Msg("model scan failed")
		models = nil
	}

	return &app{
		cfg:    cfg,
		log:    log,
		mgr:    lifecycle.New(cfg.StateDir, log),
		hist:   history.NewStore(cfg.StateDir),
		models: models,
	}, nil
}

func newLogger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// loadConfig reads the configured file when present and fills defaults for
// anything left unset. A missing default config file is not an error.
func loadConfig(log zerolog.Logger) (config.Config, error) {
	var cfg config.Config
	path := cfgFile
	if path == "" {
		p, err := fsutil.ExpandHome("~/.config/llamactl/config.yaml")
		if err != nil || !fsutil.PathExists(p) {
			return cfg, applyDefaults(&cfg)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	log.Debug().Str("path", path).Msg("config loaded")
	return cfg, applyDefaults(&cfg)
}

func applyDefaults(cfg *config.Config) error {
	if cfg.ServerBin == "" {
		cfg.ServerBin = "llama-server"
	}
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = "~/models/llm"
	}
	if cfg.StateDir == "" {
		cfg.StateDir = "~/.local/state/llamactl"
	}
	if cfg.DefaultPort == 0 {
		cfg.DefaultPort = 8080
	}
	var err error
	if cfg.ModelsDir, err = fsutil.ExpandHome(cfg.ModelsDir); err != nil {
		return err
	}
	if cfg.StateDir, err = fsutil.ExpandHome(cfg.StateDir); err != nil {
		return err
	}
	return nil
}

// resolveModel maps a user-supplied name fragment to a known model.
func (a *app) resolveModel(fragment string) (types.Model, error) {
	return registry.Resolve(a.models, fragment)
}
