package cmd

import (
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerModule provides the process logger. Logs are JSON encoded and written
// to stderr at info level until --verbose lowers the shared level to debug.
var LoggerModule = fx.Module("logger",
	fx.Provide(
		func() zap.AtomicLevel { return zap.NewAtomicLevelAt(zapcore.InfoLevel) },
		newLogger,
	),
)

// WithLogger routes fx lifecycle events through the process logger at debug
// level so they only show up with --verbose.
var WithLogger = fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
	l := &fxevent.ZapLogger{Logger: logger}
	l.UseLogLevel(zapcore.DebugLevel)
	return l
})

func newLogger(lc fx.Lifecycle, level zap.AtomicLevel) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}

	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
	}))

	return logger, nil
}
