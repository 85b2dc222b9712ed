package config

import "go.uber.org/fx"

// Module provides the LoadFunc used by commands to resolve their configuration
// once command line flags have been parsed.
var Module = fx.Module("config", fx.Provide(
	func() LoadFunc { return Load },
))
