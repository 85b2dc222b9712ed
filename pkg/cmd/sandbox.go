package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"github.com/pseudomuto/runsql/pkg/docker"
	"github.com/pseudomuto/runsql/pkg/driver"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type sandboxParams struct {
	fx.In

	State    *State
	Registry *driver.Registry
	Logger   *zap.Logger
}

// sandbox creates the sandbox command which runs scripts against a throwaway
// database container.
//
// The container is removed when the command finishes unless --keep is given,
// in which case the command prints the connection details and waits for an
// interrupt.
//
// Example usage:
//
//	# Check a schema applies cleanly on PostgreSQL 16
//	runsql sandbox --engine postgres -f db/schema.sql
//
//	# Keep a seeded ClickHouse server around for manual testing
//	runsql sandbox --engine clickhouse --tag 25.7 -f db/seed.sql --keep
func sandbox(p sandboxParams) *cli.Command {
	return &cli.Command{
		Name:  "sandbox",
		Usage: "Execute scripts against an ephemeral database container",
		Description: `Start a disposable database in Docker, execute the configured scripts against
it and report the results. Connection settings from the configuration are
ignored; the sandbox's own URL and credentials are used instead.`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "engine",
				Usage: fmt.Sprintf("database engine to run (one of %v)", docker.Engines()),
				Value: string(docker.Postgres),
				Validator: func(engine string) error {
					if !slices.Contains(docker.Engines(), docker.Engine(engine)) {
						return errors.Errorf("unsupported engine %q", engine)
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "image tag to run (defaults per engine)",
			},
			&cli.BoolFlag{
				Name:  "commit-after-each",
				Usage: "commit every statement as it runs; when false each script is one transaction",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "keep",
				Usage: "keep the container running until interrupted",
			},
		}, scriptFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSandbox(ctx, cmd, p)
		},
	}
}

func runSandbox(ctx context.Context, cmd *cli.Command, p sandboxParams) error {
	cfg := p.State.Config
	applyScriptFlags(cmd, cfg)

	if cmd.IsSet("commit-after-each") {
		cfg.CommitAfterEach = cmd.Bool("commit-after-each")
	}

	container := docker.NewWithOptions(docker.DockerOptions{
		Engine:  docker.Engine(cmd.String("engine")),
		Version: cmd.String("tag"),
	})

	p.Logger.Info("Starting sandbox",
		zap.String("engine", string(container.Options().Engine)),
		zap.String("version", container.Options().Version),
	)

	if err := container.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start sandbox")
	}

	defer func() {
		// The command context may already be cancelled by an interrupt.
		if err := container.Stop(context.WithoutCancel(ctx)); err != nil {
			p.Logger.Warn("Failed to stop sandbox", zap.Error(err))
		}
	}()

	url, err := container.URL(ctx)
	if err != nil {
		return err
	}

	username := container.Username()
	password := container.Password()
	cfg.URL = url
	cfg.Username = &username
	cfg.Password = &password
	cfg.Driver = ""

	if err := cfg.Validate(p.Registry); err != nil {
		return err
	}

	w := cmd.Root().Writer
	if err := execute(ctx, w, cfg, p.Registry, p.Logger); err != nil {
		return err
	}

	if cmd.Bool("keep") {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Sandbox running at %s (user %q)\n", url, username)
		fmt.Fprintln(w, "Press Ctrl+C to stop.")
		<-ctx.Done()
	}

	return nil
}
