package cmd

import (
	"context"

	"github.com/pseudomuto/runsql/pkg/driver"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type runParams struct {
	fx.In

	State    *State
	Registry *driver.Registry
	Logger   *zap.Logger
}

// run creates the run command for executing scripts against a database.
//
// Connection settings and script sources come from the configuration and can
// be overridden with flags. The configuration is validated before any
// connection is opened.
//
// Command flags:
//   - --url, -u: jdbc-style connection URL
//   - --username / --password: credentials (both required, may be empty)
//   - --driver: driver name, detected from the URL when omitted
//   - --commit-after-each: per-statement commits (default true)
//   - --script: inline SQL
//   - --file, -f: script location (repeatable)
//   - --keep-newlines: preserve line breaks inside statements (default true)
//
// Example usage:
//
//	# Apply scripts listed in runsql.yaml
//	runsql run
//
//	# Apply two files as one transaction each
//	runsql run --url jdbc:postgresql://localhost:5432/app --username app --password secret \
//	  --commit-after-each=false -f db/schema.sql -f db/seed.sql
//
//	# Run inline SQL against an in-memory DuckDB database
//	runsql run --url jdbc:duckdb::memory: --username "" --password "" --script "SELECT 42;"
func run(p runParams) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Execute SQL scripts",
		Description: `Split the configured scripts into statements and execute them in order.

Execution stops at the first failing statement. The error reports the script and
line the statement started on. With --commit-after-each=false every script is
applied as a single transaction and a failure leaves that script uncommitted.`,
		Flags: append(connectionFlags(), scriptFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runScripts(ctx, cmd, p)
		},
	}
}

func runScripts(ctx context.Context, cmd *cli.Command, p runParams) error {
	cfg := p.State.Config
	applyConnectionFlags(cmd, cfg)
	applyScriptFlags(cmd, cfg)

	if err := cfg.Validate(p.Registry); err != nil {
		return err
	}

	p.Logger.Debug("Resolved configuration",
		zap.String("url", driver.RedactURL(cfg.URL)),
		zap.String("driver", cfg.Driver),
		zap.Bool("commit_after_each", cfg.CommitAfterEach),
		zap.Strings("script_files", cfg.ScriptFiles),
	)

	return execute(ctx, cmd.Root().Writer, cfg, p.Registry, p.Logger)
}
