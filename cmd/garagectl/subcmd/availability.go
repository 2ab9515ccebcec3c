package subcmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(newAvailabilityCommand())
	RootCmd.AddCommand(newFullCommand())
}

func newAvailabilityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "availability",
		Short: "Show free slots per level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var avail []struct {
				Level     int `json:"level"`
				FreeSlots int `json:"free_slots"`
			}
			if err := doRequest(http.MethodGet, "/api/availability", nil, &avail); err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Level", "Free Slots"})
			for _, a := range avail {
				t.AppendRow(table.Row{a.Level, a.FreeSlots})
			}
			t.Render()
			return nil
		},
	}
}

func newFullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "full",
		Short: "Check whether the garage is completely full",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Full bool `json:"full"`
			}
			if err := doRequest(http.MethodGet, "/api/full", nil, &result); err != nil {
				return err
			}
			if result.Full {
				fmt.Println("The garage is completely full.")
			} else {
				fmt.Println("The garage still has space available.")
			}
			return nil
		},
	}
}
