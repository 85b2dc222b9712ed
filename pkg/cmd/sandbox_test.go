package cmd

import (
	"testing"

	"github.com/pseudomuto/runsql/pkg/cmd/testutil"
	"github.com/pseudomuto/runsql/pkg/config"
	"github.com/pseudomuto/runsql/pkg/driver"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSandboxCommand_InvalidEngine(t *testing.T) {
	p := sandboxParams{State: &State{Config: config.Default()}, Registry: driver.Builtin(), Logger: zap.NewNop()}

	_, err := testutil.RunCommand(t, sandbox(p), "--engine", "oracle", "--script", "SELECT 1;")
	require.ErrorContains(t, err, `unsupported engine "oracle"`)
}

func TestSandboxCommand_Postgres(t *testing.T) {
	testutil.SkipIfNoDocker(t)

	fixture := testutil.NewFixture(t)
	schema := fixture.WithScript("schema.sql", schemaSQL)
	seed := fixture.WithScript("seed.sql", seedSQL)

	p := sandboxParams{State: &State{Config: config.Default()}, Registry: driver.Builtin(), Logger: zap.NewNop()}

	out, err := testutil.RunCommand(t, sandbox(p),
		"--engine", "postgres",
		"--commit-after-each=false",
		"-f", schema,
		"-f", seed,
	)
	require.NoError(t, err)
	require.Contains(t, out, "Summary: 2 successful, 0 failed, 0 skipped")
	require.Equal(t, "pgx", p.State.Config.Driver)
}
