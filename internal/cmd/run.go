package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"llamactl/internal/capture"
)

var runPort int

var runCmd = &cobra.Command{
	Use:   "run <model> [-- server args]",
	Short: "Run llama-server in the foreground with output capture",
	Long: `Run llama-server for a model and stream its output to the terminal.

Startup diagnostics are captured and written to the state directory so
later invocations can inspect model metadata without relaunching.
Arguments after -- are passed to llama-server verbatim.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runPort, "port", 0, "llama-server port (default from config)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	model, err := a.resolveModel(args[0])
	if err != nil {
		return err
	}
	port := runPort
	if port == 0 {
		port = a.cfg.DefaultPort
	}
	eng := capture.NewEngine(a.cfg, a.mgr, a.hist, a.log)
	code, err := eng.Run(model, port, args[1:])
	if err != nil {
		return err
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}
