package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pseudomuto/runsql/pkg/cmd"
	"github.com/pseudomuto/runsql/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	fx.New(
		// Leaves time for an interrupted sandbox to remove its container.
		fx.StopTimeout(time.Minute),
		fx.Supply(
			os.Args,
			&cmd.Version{
				Version:   version,
				Commit:    commit,
				Timestamp: date,
			},
		),
		fx.Provide(signalContext),
		cmd.LoggerModule,
		cmd.WithLogger,
		config.Module,
		cmd.Module,
	).Run()
}

func signalContext(lc fx.Lifecycle) context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	lc.Append(fx.StopHook(stop))
	return ctx
}
