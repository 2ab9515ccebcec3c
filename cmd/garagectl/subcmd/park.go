package subcmd

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(newParkCommand())
	RootCmd.AddCommand(newUnparkCommand())
	RootCmd.AddCommand(newLocateCommand())
}

func newParkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "park <id> <kind>",
		Short: "Park a machine (kind: bike, car or truck)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var placed placement
			err := doRequest(http.MethodPost, "/api/machines", map[string]string{
				"id":   args[0],
				"kind": args[1],
			}, &placed)
			if err != nil {
				return err
			}
			fmt.Printf("Stored machine '%s' on level %d in slot(s) %v\n", placed.MachineID, placed.Level, placed.Slots)
			return nil
		},
	}
}

func newUnparkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unpark <id>",
		Short: "Remove a parked machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				MachineID string `json:"machine_id"`
				Level     int    `json:"level"`
			}
			err := doRequest(http.MethodDelete, "/api/machines/"+url.PathEscape(args[0]), nil, &result)
			if err != nil {
				return err
			}
			fmt.Printf("Machine '%s' has been removed from level %d\n", result.MachineID, result.Level)
			return nil
		},
	}
}

func newLocateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <id>",
		Short: "Show where a machine is parked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var placed placement
			err := doRequest(http.MethodGet, "/api/machines/"+url.PathEscape(args[0]), nil, &placed)
			if err != nil {
				return err
			}
			fmt.Printf("Machine '%s' (%s) is on level %d occupying slot(s) %v\n", placed.MachineID, placed.Kind, placed.Level, placed.Slots)
			return nil
		},
	}
}
