package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models found in the models directory",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if len(a.models) == 0 {
		fmt.Printf("No models found in %s.\n", a.cfg.ModelsDir)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tQUANT\tFAMILY\tPATH")
	for _, m := range a.models {
		quant := m.Quant
		if quant == "" {
			quant = "-"
		}
		family := m.Family
		if family == "" {
			family = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, quant, family, m.Path)
	}
	return w.Flush()
}
