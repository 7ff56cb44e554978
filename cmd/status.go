package cmd

import (
	"fmt"
	"sort"

	"github.com/quickdim/quickdim/internal/engine"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon state",
	RunE: func(cmd *cobra.Command, args []string) error {
		var status engine.Status
		if err := apiGet("/status", &status); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		state := "disabled"
		if status.Enabled {
			state = "enabled"
		}
		fmt.Fprintf(out, "Dimming: %s (opacity %.2f)\n", state, status.Opacity)
		if status.FocusedDisplay != nil {
			fmt.Fprintf(out, "Focused display: %d\n", *status.FocusedDisplay)
		} else {
			fmt.Fprintln(out, "Focused display: unknown")
		}
		fmt.Fprintf(out, "Active overlays: %d\n", status.ActiveOverlays)

		ids := make([]int, 0, len(status.MonitorSettings))
		for id := range status.MonitorSettings {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			m := status.MonitorSettings[id]
			flags := ""
			if m.IsFocused {
				flags += " focused"
			}
			if m.HasOverlay {
				flags += " dimmed"
			}
			if !m.Enabled {
				flags += " off"
			}
			fmt.Fprintf(out, "  display %d: %dx%d at (%d,%d), opacity %.2f%s\n",
				id, m.Bounds.Width, m.Bounds.Height, m.Bounds.X, m.Bounds.Y, m.Opacity, flags)
		}
		return nil
	},
}

func init() {
	registerClientFlags(statusCmd)
	rootCmd.AddCommand(statusCmd)
}
