package cmd

import (
	"github.com/pseudomuto/runsql/pkg/driver"
	"go.uber.org/fx"
)

var Module = fx.Module("cli",
	fx.Provide(
		driver.Builtin,
		func() *State { return &State{} },
		fx.Annotate(drivers, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(run, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(sandbox, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(split, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
