package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"llamactl/internal/lifecycle"
)

var stopAll bool

var stopCmd = &cobra.Command{
	Use:   "stop [model]",
	Short: "Stop a running llama-server",
	Long:  `Stop the tracked llama-server for a model, or every tracked server with --all.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().BoolVar(&stopAll, "all", false, "stop every tracked server")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if stopAll {
		if len(args) > 0 {
			return fmt.Errorf("--all takes no model argument")
		}
		stopped, failed := a.mgr.StopAll()
		fmt.Printf("Stopped %d server(s).\n", stopped)
		if len(failed) > 0 {
			for _, m := range lifecycle.FailedModels(failed) {
				fmt.Printf("  %s: %v\n", m, failed[m])
			}
			return fmt.Errorf("failed to stop: %s", strings.Join(lifecycle.FailedModels(failed), ", "))
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("specify a model or use --all")
	}
	model, err := a.resolveModel(args[0])
	if err != nil {
		return err
	}
	entry := a.mgr.IsRunning(model.ID)
	if entry == nil {
		fmt.Printf("%s is not running.\n", model.ID)
		return nil
	}
	if err := a.mgr.StopOne(*entry); err != nil {
		if lifecycle.IsNoPID(err) {
			fmt.Printf("No PID found for %s; cleared its tracked entry.\n", model.ID)
			return nil
		}
		return err
	}
	fmt.Printf("Stopped %s.\n", model.ID)
	return nil
}
