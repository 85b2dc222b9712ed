package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/runsql/pkg/config"
	"github.com/pseudomuto/runsql/pkg/consts"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
		Load       config.LoadFunc
		State      *State
		Logger     *zap.Logger
		Level      zap.AtomicLevel
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}

	// State carries values resolved by the root command's global flags to the
	// subcommands. It is populated before any subcommand action runs.
	State struct {
		// Config is the loaded configuration with file, environment, dotenv and
		// process environment overrides applied
		Config *config.Config
	}
)

// Run creates and executes the main runsql CLI application.
//
// Global Flags:
//   - --config, -c: Configuration file (defaults to runsql.yaml, env RUNSQL_CONFIG)
//   - --env, -e: Named environment overlay from the configuration file
//   - --verbose, -v: Enable debug logging
//
// The configuration is resolved once, before the selected subcommand runs, and
// shared with every command through State. The command runs in the background
// once the fx app has started, and the process exits with status 1 when it fails.
//
// Example usage:
//
//	runsql --config db/runsql.yaml --env staging run
//	runsql run --url jdbc:sqlite:app.db --username "" --password "" --file schema.sql
func Run(p Params) {
	app := newApp(p)
	done := make(chan struct{})

	// Commands may run far longer than fx's start timeout. Stopping waits for
	// the command to unwind so deferred cleanup completes.
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)

				code := 0
				if err := app.Run(p.Ctx, p.Args); err != nil {
					p.Logger.Error("Error running command", zap.Error(err))
					code = 1
				}

				_ = p.Shutdowner.Shutdown(fx.ExitCode(code))
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func newApp(p Params) *cli.Command {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	return &cli.Command{
		Name:  "runsql",
		Usage: "Run SQL scripts against any database",
		Description: `runsql splits SQL scripts into statements and executes them one at a time
against a database identified by a jdbc-style connection URL.

Statements either commit as they run (the default) or are applied as a single
transaction per script with --commit-after-each=false.`,
		Version: p.Version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "the runsql config file",
				Sources:     cli.EnvVars("RUNSQL_CONFIG"),
				DefaultText: consts.DefaultConfigFile,
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "the named environment to apply from the config file",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				p.Level.SetLevel(zapcore.DebugLevel)
			}

			cfg, err := p.Load(config.LoadOptions{
				Path:        cmd.String("config"),
				Environment: cmd.String("env"),
			})
			if err != nil {
				return ctx, errors.Wrap(err, "failed to load configuration")
			}

			p.State.Config = cfg
			return ctx, nil
		},
		Commands: p.Commands,
	}
}
