package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the configuration file looked up when none is given
	DefaultConfigFile = "runsql.yaml"

	// EnvPrefix prefixes every environment variable read by runsql
	EnvPrefix = "RUNSQL_"

	// DefaultClickHouseVersion is the ClickHouse image tag used by the sandbox
	DefaultClickHouseVersion = "25.7"

	// DefaultPostgresVersion is the Postgres image tag used by the sandbox
	DefaultPostgresVersion = "16-alpine"
)
