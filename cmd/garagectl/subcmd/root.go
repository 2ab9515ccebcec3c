package subcmd

import (
	"github.com/spf13/cobra"
)

var serverURL string

// RootCmd is the garagectl entry point.
var RootCmd = &cobra.Command{
	Use:          "garagectl",
	Short:        "Command-line client for the parking garage service",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "base URL of the garaged server")
}
