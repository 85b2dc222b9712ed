package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type splitParams struct {
	fx.In

	State  *State
	Logger *zap.Logger
}

// split creates the split command, a dry run that prints the statements a
// script would execute along with the line each one starts on.
//
// Example usage:
//
//	runsql split -f db/schema.sql
//	runsql split --script "SELECT 1; SELECT 2;"
//	runsql split --keep-newlines=false -f s3://scripts/seed.sql
func split(p splitParams) *cli.Command {
	return &cli.Command{
		Name:  "split",
		Usage: "Print the statements a script contains without executing them",
		Description: `Split the configured scripts into statements and print each one with the
line it starts on. No database connection is made.`,
		Flags: scriptFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := p.State.Config
			applyScriptFlags(cmd, cfg)

			scripts, err := loadScripts(ctx, cfg, p.Logger)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			for _, s := range scripts {
				fmt.Fprintf(w, "%s (%d statements)\n", s.Name(), len(s.Statements))

				for _, stmt := range s.Statements {
					fmt.Fprintf(w, "%6d  %s\n", stmt.Line, indent(stmt.Text))
				}

				fmt.Fprintln(w)
			}

			return nil
		},
	}
}

// indent aligns continuation lines of multi-line statements with the first.
func indent(text string) string {
	return strings.ReplaceAll(text, "\n", "\n        ")
}
