package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent run history",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "n", 20, "number of records to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	recs, err := a.hist.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No run history.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODEL\tSTATUS\tEXIT\tSTARTED\tENDED")
	for _, r := range recs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			r.Model, r.Status, r.ExitCode,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.EndedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
