package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "quickdim",
	Short:   "Focus-following display dimmer",
	Version: Version,
	Long: `quickdim dims every display except the one holding the focused window.

The daemon polls the OS for the frontmost window, resolves which display
it is on, and keeps dim overlays on all the others. A loopback HTTP API
and a websocket push channel expose status and control.

Usage:
  quickdim serve                     Start the dimming daemon
  quickdim status                    Show daemon state
  quickdim toggle                    Flip dimming on or off
  quickdim opacity 0.5               Set the global dim opacity
  quickdim monitor 2 opacity 0.3     Set one display's opacity
  quickdim config init               Create default config file`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
