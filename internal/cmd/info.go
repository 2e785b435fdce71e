package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"llamactl/internal/capture"
	"llamactl/pkg/types"
)

var infoCmd = &cobra.Command{
	Use:   "info <model>",
	Short: "Show metadata captured from the model's last run",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	model, err := a.resolveModel(args[0])
	if err != nil {
		return err
	}
	infos := capture.NewInfoStore(a.cfg.StateDir)
	info, err := infos.Load(model.ID)
	if err != nil {
		return fmt.Errorf("no captured run info for %s; run it once with 'llamactl run %s'", model.ID, model.ID)
	}

	fmt.Printf("Model: %s\n", info.Model)
	fmt.Printf("Captured: %s (%d lines)\n", info.WrittenAt.Local().Format("2006-01-02 15:04:05"), len(info.CapturedLines))
	if info.IsPartial {
		fmt.Printf("Note: capture is partial (end reason: %s)\n", info.EndReason)
	}
	if capture.Stale(info) {
		fmt.Println("Note: model file changed since capture; rerun to refresh")
	}

	if len(info.KV) > 0 {
		keys := make([]string, 0, len(info.KV))
		for k := range info.KV {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", k, renderKV(info.KV[k]))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(info.Derived) > 0 {
		keys := make([]string, 0, len(info.Derived))
		for k := range info.Derived {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println()
		for _, k := range keys {
			fmt.Printf("%s: %g\n", k, info.Derived[k])
		}
	}
	return nil
}

func renderKV(v types.KVValue) string {
	switch v.Kind {
	case types.KVArray:
		return strings.Join(v.Array, ", ")
	case types.KVOmitted:
		return fmt.Sprintf("<%d entries, %s>", v.Count, v.Reason)
	default:
		return v.Scalar
	}
}
