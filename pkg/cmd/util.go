package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/pseudomuto/runsql/pkg/clickhouse"
	"github.com/pseudomuto/runsql/pkg/config"
	"github.com/pseudomuto/runsql/pkg/driver"
	"github.com/pseudomuto/runsql/pkg/executor"
	"github.com/pseudomuto/runsql/pkg/script"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	skippedColor = color.New(color.FgYellow)
)

// scriptFlags are shared by every command that reads scripts.
func scriptFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "script",
			Usage: "inline SQL to execute (mutually exclusive with --file)",
		},
		&cli.StringSliceFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "script location: local path, file://, http(s):// or s3:// URL (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "keep-newlines",
			Usage: "join multi-line statements with newlines instead of spaces",
			Value: true,
		},
	}
}

// connectionFlags override the connection settings from the configuration.
func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Usage:   "jdbc-style connection URL (e.g. jdbc:postgresql://localhost:5432/app)",
			Config:  cli.StringConfig{TrimSpace: true},
		},
		&cli.StringFlag{
			Name:  "username",
			Usage: "database user",
		},
		&cli.StringFlag{
			Name:  "password",
			Usage: "database password",
		},
		&cli.StringFlag{
			Name:   "driver",
			Usage:  "driver name (detected from the URL when omitted, see 'runsql drivers')",
			Config: cli.StringConfig{TrimSpace: true},
		},
		&cli.BoolFlag{
			Name:  "commit-after-each",
			Usage: "commit every statement as it runs; when false each script is one transaction",
			Value: true,
		},
	}
}

// applyScriptFlags copies explicitly set script flags onto cfg. Setting one
// script source clears the other so flags always win over the file.
func applyScriptFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("script") {
		cfg.Script = cmd.String("script")
		cfg.ScriptFiles = nil
	}

	if cmd.IsSet("file") {
		cfg.ScriptFiles = cmd.StringSlice("file")
		cfg.Script = ""
	}

	if cmd.IsSet("keep-newlines") {
		cfg.KeepNewlines = cmd.Bool("keep-newlines")
	}
}

// applyConnectionFlags copies explicitly set connection flags onto cfg.
func applyConnectionFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("url") {
		cfg.URL = cmd.String("url")
	}

	if cmd.IsSet("username") {
		username := cmd.String("username")
		cfg.Username = &username
	}

	if cmd.IsSet("password") {
		password := cmd.String("password")
		cfg.Password = &password
	}

	if cmd.IsSet("driver") {
		cfg.Driver = cmd.String("driver")
	}

	if cmd.IsSet("commit-after-each") {
		cfg.CommitAfterEach = cmd.Bool("commit-after-each")
	}
}

func loadScripts(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]*script.Script, error) {
	loader := script.NewLoader(script.LoaderOptions{
		S3:           cfg.S3,
		KeepNewlines: cfg.KeepNewlines,
		Logger:       logger,
	})

	return loader.LoadAll(ctx, cfg.Script, cfg.ScriptFiles)
}

func tlsConfig(cfg *config.Config) (*tls.Config, error) {
	settings := clickhouse.TLSSettings{
		CAFile:   cfg.ClickHouse.TLS.CAFile,
		CertFile: cfg.ClickHouse.TLS.CertFile,
		KeyFile:  cfg.ClickHouse.TLS.KeyFile,
	}

	if !settings.Enabled() {
		return nil, nil
	}

	return clickhouse.GetTLSConfig(clickhouse.ClientOptions{TLSSettings: settings})
}

// execute loads the scripts described by a validated cfg, runs them on a single
// session and reports the results to w.
func execute(ctx context.Context, w io.Writer, cfg *config.Config, reg *driver.Registry, logger *zap.Logger) error {
	scripts, err := loadScripts(ctx, cfg, logger)
	if err != nil {
		return err
	}

	tlsCfg, err := tlsConfig(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to configure TLS")
	}

	conn, err := reg.Connector(driver.ConnectParams{
		URL:      cfg.URL,
		Driver:   cfg.Driver,
		Username: *cfg.Username,
		Password: *cfg.Password,
		TLS:      tlsCfg,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	exec := executor.New(executor.Config{
		Open: func(ctx context.Context) (executor.Session, error) {
			return conn.Open(ctx)
		},
		CommitAfterEach: cfg.CommitAfterEach,
		Logger:          logger,
	})

	results, err := exec.Run(ctx, scripts...)
	reportResults(w, results)

	return err
}

func reportResults(w io.Writer, results []*executor.ExecutionResult) {
	if len(results) == 0 {
		return
	}

	var (
		successCount int
		failedCount  int
		skippedCount int
	)

	fmt.Fprintln(w, "Script execution results:")
	fmt.Fprintln(w)

	for _, result := range results {
		switch result.Status {
		case executor.StatusSuccess:
			_, _ = successColor.Fprintf(w, "  ✓ %s completed in %v (%d/%d statements)\n",
				result.Source,
				result.ExecutionTime,
				result.StatementsApplied,
				result.TotalStatements,
			)
			successCount++

		case executor.StatusFailed:
			_, _ = failureColor.Fprintf(w, "  ✗ %s failed after %v (%d/%d statements)\n",
				result.Source,
				result.ExecutionTime,
				result.StatementsApplied,
				result.TotalStatements,
			)
			if result.Error != nil {
				fmt.Fprintf(w, "     Error: %v\n", result.Error)
			}
			failedCount++

		case executor.StatusSkipped:
			_, _ = skippedColor.Fprintf(w, "  - %s skipped\n", result.Source)
			skippedCount++
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Summary: %d successful, %d failed, %d skipped\n", successCount, failedCount, skippedCount)
}
