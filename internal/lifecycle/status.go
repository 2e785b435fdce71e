package lifecycle

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"llamactl/pkg/types"
)

// maxRecentStopped caps how many stopped entries the human summary shows.
const maxRecentStopped = 5

// Status renders the state store to w. JSON mode emits the raw document;
// otherwise a grouped running/recently-stopped summary, newest first.
func (m *Manager) Status(w io.Writer, jsonMode bool) error {
	doc := m.loadDoc()
	if jsonMode {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	var running, stopped []types.RunEntry
	for _, e := range doc.Servers {
		if e.State == types.StateRunning {
			running = append(running, e)
		} else {
			stopped = append(stopped, e)
		}
	}

	if len(running) == 0 && len(stopped) == 0 {
		_, err := fmt.Fprintln(w, "No servers tracked.")
		return err
	}

	if len(running) > 0 {
		fmt.Fprintln(w, "Running:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  MODEL\tPORT\tPID\tMODE\tSTARTED")
		for _, e := range running {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
				e.Model, optInt(e.Port), optInt(e.PID), e.Mode, e.StartedAt.Local().Format(time.DateTime))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, "No servers running.")
	}

	if len(stopped) > 0 {
		if len(stopped) > maxRecentStopped {
			stopped = stopped[:maxRecentStopped]
		}
		fmt.Fprintln(w, "Recently stopped:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  MODEL\tEXIT\tSTOPPED")
		for _, e := range stopped {
			when := "-"
			if e.StoppedAt != nil {
				when = e.StoppedAt.Local().Format(time.DateTime)
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.Model, optInt(e.ExitCode), when)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}
