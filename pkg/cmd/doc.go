// Package cmd provides CLI commands for the runsql tool.
//
// # Available Commands
//
//   - run: Execute scripts against a database
//   - split: Print the statements a script contains (dry run)
//   - drivers: List the available drivers and the URL subprotocols they handle
//   - sandbox: Execute scripts against an ephemeral Docker database
//
// # Command Structure
//
// Each command is implemented as a function that returns a *cli.Command and is
// registered with fx in the "commands" group. Commands receive their
// dependencies (the driver registry, the logger and the shared State) through
// fx parameter structs.
//
// # Global Options
//
//   - --config, -c: Configuration file (defaults to runsql.yaml)
//   - --env, -e: Named environment overlay
//   - --verbose, -v: Enable debug logging
//   - --help, -h: Display command help
//   - --version: Display version information
//
// # Example Usage
//
//	runsql run                                          # Scripts and connection from runsql.yaml
//	runsql -e staging run --commit-after-each=false     # One transaction per script on staging
//	runsql run -u jdbc:sqlite:app.db --username "" --password "" -f schema.sql
//	runsql split -f db/seed.sql                         # Show statements and line numbers
//	runsql sandbox --engine postgres -f db/schema.sql   # Try a schema in a throwaway container
package cmd
