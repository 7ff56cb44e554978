package cmd

import (
	"fmt"
	"strconv"

	"github.com/quickdim/quickdim/internal/engine"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <id> <show|enable|disable|opacity VALUE>",
	Short: "Inspect or configure one display",
	Long: `Inspect or configure dimming for a single display.

Examples:
  quickdim monitor 2 show
  quickdim monitor 2 opacity 0.3
  quickdim monitor 2 disable`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("display id must be an integer, got %q", args[0])
		}

		out := cmd.OutOrStdout()
		switch args[1] {
		case "show":
			var info engine.MonitorInfo
			if err := apiGet(fmt.Sprintf("/monitor/%d", id), &info); err != nil {
				return err
			}
			state := "disabled"
			if info.Enabled {
				state = "enabled"
			}
			fmt.Fprintf(out, "Display %d: %s, opacity %.2f, %dx%d at (%d,%d)\n",
				info.DisplayID, state, info.Opacity,
				info.Bounds.Width, info.Bounds.Height, info.Bounds.X, info.Bounds.Y)
			return nil

		case "enable", "disable":
			enabled := args[1] == "enable"
			if err := apiPost(fmt.Sprintf("/monitor/%d/enabled", id), map[string]bool{"enabled": enabled}, nil); err != nil {
				return err
			}
			fmt.Fprintf(out, "Display %d dimming %sd\n", id, args[1])
			return nil

		case "opacity":
			if len(args) != 3 {
				return fmt.Errorf("usage: quickdim monitor %d opacity <value>", id)
			}
			opacity, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("opacity must be a number, got %q", args[2])
			}
			if opacity < 0.0 || opacity > 1.0 {
				return fmt.Errorf("opacity must be between 0.0 and 1.0, got %g", opacity)
			}
			if err := apiPost(fmt.Sprintf("/monitor/%d/opacity", id), map[string]float64{"opacity": opacity}, nil); err != nil {
				return err
			}
			fmt.Fprintf(out, "Display %d opacity set to %.2f\n", id, opacity)
			return nil

		default:
			return fmt.Errorf("unknown action %q (want show, enable, disable or opacity)", args[1])
		}
	},
}

func init() {
	registerClientFlags(monitorCmd)
	rootCmd.AddCommand(monitorCmd)
}
