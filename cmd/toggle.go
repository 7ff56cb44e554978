package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip master dimming on or off",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result struct {
			Enabled bool `json:"enabled"`
		}
		if err := apiPost("/toggle", struct{}{}, &result); err != nil {
			return err
		}
		if result.Enabled {
			fmt.Fprintln(cmd.OutOrStdout(), "Dimming enabled")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Dimming disabled")
		}
		return nil
	},
}

func init() {
	registerClientFlags(toggleCmd)
	rootCmd.AddCommand(toggleCmd)
}
