package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pseudomuto/runsql/pkg/driver"
	"github.com/urfave/cli/v3"
)

// drivers creates the drivers command which lists every registered driver and
// the URL subprotocols it is detected from.
func drivers(reg *driver.Registry) *cli.Command {
	return &cli.Command{
		Name:  "drivers",
		Usage: "List available database drivers",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer

			fmt.Fprintf(w, "%-12s %-22s %s\n", "DRIVER", "SUBPROTOCOLS", "DESCRIPTION")
			for _, d := range reg.Drivers() {
				subprotocols := "-"
				if len(d.Subprotocols) > 0 {
					subprotocols = strings.Join(d.Subprotocols, ", ")
				}

				fmt.Fprintf(w, "%-12s %-22s %s\n", d.Name, subprotocols, d.Description)
			}

			return nil
		},
	}
}
