package cmd

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/fatih/color"
	"github.com/pseudomuto/runsql/pkg/cmd/testutil"
	"github.com/pseudomuto/runsql/pkg/config"
	"github.com/pseudomuto/runsql/pkg/driver"
	"github.com/pseudomuto/runsql/pkg/executor"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	schemaSQL = `-- users table
CREATE TABLE users (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL
);
`

	seedSQL = `INSERT INTO users (id, name) VALUES (1, 'alice');
INSERT INTO users (id, name) VALUES (2, 'bob; the builder'); -- quoted terminator
`

	duplicateSQL = `INSERT INTO users (id, name) VALUES (1, 'alice');

INSERT INTO users (id, name) VALUES (1, 'alice again');
`
)

func init() {
	color.NoColor = true
}

func newRunParams(cfg *config.Config) runParams {
	return runParams{
		State:    &State{Config: cfg},
		Registry: driver.Builtin(),
		Logger:   zap.NewNop(),
	}
}

func TestRunCommand_SQLite(t *testing.T) {
	fixture := testutil.NewFixture(t)
	schema := fixture.WithScript("db/schema.sql", schemaSQL)
	seed := fixture.WithScript("db/seed.sql", seedSQL)

	out, err := testutil.RunCommand(t, run(newRunParams(config.Default())),
		"--url", fixture.SQLiteURL(),
		"--username", "",
		"--password", "",
		"-f", schema,
		"-f", seed,
	)
	require.NoError(t, err)

	require.Contains(t, out, "✓ "+schema+" completed")
	require.Contains(t, out, "(2/2 statements)")
	require.Contains(t, out, "Summary: 2 successful, 0 failed, 0 skipped")
	require.Equal(t, 2, countUsers(t, fixture.DatabasePath()))
}

func TestRunCommand_Failure(t *testing.T) {
	tests := []struct {
		name            string
		args            []string
		expectedUsers   int
		expectedApplied string
	}{
		{
			name:            "commit after each keeps applied statements",
			expectedUsers:   1,
			expectedApplied: "(1/2 statements)",
		},
		{
			name:            "atomic scripts discard the failing script",
			args:            []string{"--commit-after-each=false"},
			expectedUsers:   0,
			expectedApplied: "(1/2 statements)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := testutil.NewFixture(t)
			schema := fixture.WithScript("schema.sql", schemaSQL)
			duplicate := fixture.WithScript("duplicate.sql", duplicateSQL)
			seed := fixture.WithScript("seed.sql", seedSQL)

			args := append([]string{
				"--url", fixture.SQLiteURL(),
				"--username", "",
				"--password", "",
				"-f", schema,
				"-f", duplicate,
				"-f", seed,
			}, tt.args...)

			out, err := testutil.RunCommand(t, run(newRunParams(config.Default())), args...)

			var stmtErr *executor.StatementError
			require.ErrorAs(t, err, &stmtErr)
			require.Equal(t, duplicate, stmtErr.Source)
			require.Equal(t, 3, stmtErr.Line)

			require.Contains(t, out, "✗ "+duplicate+" failed")
			require.Contains(t, out, tt.expectedApplied)
			require.Contains(t, out, "- "+seed+" skipped")
			require.Contains(t, out, "Summary: 1 successful, 1 failed, 1 skipped")
			require.Equal(t, tt.expectedUsers, countUsers(t, fixture.DatabasePath()))
		})
	}
}

func TestRunCommand_InlineScript(t *testing.T) {
	fixture := testutil.NewFixture(t)

	cfg := config.Default()
	cfg.ScriptFiles = []string{"ignored.sql"}

	out, err := testutil.RunCommand(t, run(newRunParams(cfg)),
		"--url", fixture.SQLiteURL(),
		"--username", "",
		"--password", "",
		"--script", "CREATE TABLE users (id INTEGER, name TEXT); INSERT INTO users VALUES (1, 'x');",
	)
	require.NoError(t, err)
	require.Contains(t, out, "✓ n/a completed")
	require.Equal(t, 1, countUsers(t, fixture.DatabasePath()))
}

func TestRunCommand_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{
			name:   "missing username",
			args:   []string{"--url", "jdbc:sqlite::memory:", "--password", "", "--script", "SELECT 1;"},
			errMsg: "Missing property 'username'",
		},
		{
			name:   "non-jdbc url",
			args:   []string{"--url", "sqlite::memory:", "--username", "", "--password", "", "--script", "SELECT 1;"},
			errMsg: "Invalid/non-JDBC url",
		},
		{
			name:   "undetectable driver",
			args:   []string{"--url", "jdbc:oracle:thin:@localhost", "--username", "", "--password", "", "--script", "SELECT 1;"},
			errMsg: "Missing property 'driver'",
		},
		{
			name:   "no scripts",
			args:   []string{"--url", "jdbc:sqlite::memory:", "--username", "", "--password", ""},
			errMsg: "You must specify either 'script_files' or 'script'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testutil.RunCommand(t, run(newRunParams(config.Default())), tt.args...)
			require.Error(t, err)
			require.True(t, config.IsConfigurationError(err))
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("unknown driver", func(t *testing.T) {
		_, err := testutil.RunCommand(t, run(newRunParams(config.Default())),
			"--url", "jdbc:sqlite::memory:",
			"--username", "",
			"--password", "",
			"--driver", "oracle",
			"--script", "SELECT 1;",
		)
		require.ErrorIs(t, err, driver.ErrDriverNotFound)
	})

	t.Run("connection failure", func(t *testing.T) {
		fixture := testutil.NewFixture(t)

		_, err := testutil.RunCommand(t, run(newRunParams(config.Default())),
			"--url", "jdbc:sqlite:"+fixture.Dir+"/missing/dir/app.db",
			"--username", "",
			"--password", "",
			"--script", "SELECT 1;",
		)

		var connErr *driver.ConnectionError
		require.ErrorAs(t, err, &connErr)
	})
}

func TestApp_ConfigFile(t *testing.T) {
	fixture := testutil.NewFixture(t)
	schema := fixture.WithScript("schema.sql", schemaSQL)
	fixture.WithConfig(map[string]any{
		"url":          "jdbc:postgresql://localhost:5432/unused",
		"username":     "",
		"password":     "",
		"script_files": []string{schema},
		"environments": map[string]any{
			"local": map[string]any{"url": fixture.SQLiteURL()},
		},
	})

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	newTestApp := func(state *State) (*cli.Command, *bytes.Buffer) {
		app := newApp(Params{
			Version: &Version{Version: "1.0.0"},
			Load:    config.Load,
			State:   state,
			Logger:  zap.NewNop(),
			Level:   level,
			Commands: []*cli.Command{
				run(runParams{State: state, Registry: driver.Builtin(), Logger: zap.NewNop()}),
			},
		})

		var out bytes.Buffer
		app.Writer = &out
		return app, &out
	}

	state := &State{}
	app, out := newTestApp(state)

	err := app.Run(t.Context(), []string{"runsql", "-c", fixture.ConfigPath(), "-e", "local", "-v", "run"})
	require.NoError(t, err)

	require.Equal(t, zapcore.DebugLevel, level.Level())
	require.Equal(t, fixture.SQLiteURL(), state.Config.URL)
	require.Equal(t, "sqlite", state.Config.Driver)
	require.Contains(t, out.String(), "Summary: 1 successful, 0 failed, 0 skipped")
	require.Zero(t, countUsers(t, fixture.DatabasePath()))

	app, _ = newTestApp(&State{})
	err = app.Run(t.Context(), []string{"runsql", "-c", fixture.ConfigPath(), "-e", "missing", "run"})
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func countUsers(t *testing.T, path string) int {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))

	return count
}
