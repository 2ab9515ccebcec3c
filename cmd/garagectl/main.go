package main

import (
	"os"

	"parking-garage-backend/cmd/garagectl/subcmd"
)

func main() {
	if err := subcmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
