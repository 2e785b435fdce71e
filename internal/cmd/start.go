package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"llamactl/internal/capture"
	"llamactl/internal/lifecycle"
)

var startPort int

var startCmd = &cobra.Command{
	Use:   "start <model> [-- server args]",
	Short: "Launch llama-server in the background",
	Long: `Launch llama-server detached from the terminal. Output goes to a log
file under the state directory and the process keeps running after
llamactl exits. Arguments after -- are passed to llama-server verbatim.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().IntVar(&startPort, "port", 0, "llama-server port (default from config)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	model, err := a.resolveModel(args[0])
	if err != nil {
		return err
	}
	port := startPort
	if port == 0 {
		port = a.cfg.DefaultPort
	}
	command := capture.DaemonCommand(a.cfg, model, port, args[1:])
	pid, logPath, err := a.mgr.LaunchDetached(model.ID, command, port)
	if err != nil {
		if lifecycle.IsLaunchConflict(err) {
			return fmt.Errorf("%s is already running; stop it first with 'llamactl stop %s'", model.ID, model.ID)
		}
		return err
	}
	fmt.Printf("Started %s on port %d (pid %d).\n", model.ID, port, pid)
	fmt.Printf("Logs: %s\n", logPath)
	return nil
}
