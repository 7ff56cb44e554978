package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var opacityDisplay int

var opacityCmd = &cobra.Command{
	Use:   "opacity <value>",
	Short: "Set the dim opacity (0.0 to 1.0)",
	Long: `Set the global dim opacity, or one display's opacity with --display.

A per-display opacity set here becomes an override: later global changes
leave it untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opacity, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("opacity must be a number, got %q", args[0])
		}
		if opacity < 0.0 || opacity > 1.0 {
			return fmt.Errorf("opacity must be between 0.0 and 1.0, got %g", opacity)
		}

		body := map[string]float64{"opacity": opacity}
		if opacityDisplay >= 0 {
			if err := apiPost(fmt.Sprintf("/monitor/%d/opacity", opacityDisplay), body, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Display %d opacity set to %.2f\n", opacityDisplay, opacity)
			return nil
		}

		var result struct {
			Opacity float64 `json:"opacity"`
		}
		if err := apiPost("/opacity", body, &result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opacity set to %.2f\n", result.Opacity)
		return nil
	},
}

func init() {
	opacityCmd.Flags().IntVarP(&opacityDisplay, "display", "d", -1, "Apply to one display instead of globally")
	registerClientFlags(opacityCmd)
	rootCmd.AddCommand(opacityCmd)
}
