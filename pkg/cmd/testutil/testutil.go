package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/runsql/pkg/config"
	"github.com/pseudomuto/runsql/pkg/consts"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Fixture is an isolated working directory holding scripts and a config file
type Fixture struct {
	Dir string
	t   *testing.T
}

// NewFixture creates a fixture rooted in a fresh temp directory
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	return &Fixture{Dir: t.TempDir(), t: t}
}

// WithScript writes a script file relative to the fixture directory and returns
// its absolute path
func (f *Fixture) WithScript(name, sql string) string {
	f.t.Helper()

	path := filepath.Join(f.Dir, name)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), consts.ModeDir), "Failed to create script directory")
	require.NoError(f.t, os.WriteFile(path, []byte(sql), consts.ModeFile), "Failed to write script: %s", name)

	return path
}

// WithConfig writes values as the fixture's runsql.yaml and returns its path
func (f *Fixture) WithConfig(values map[string]any) string {
	f.t.Helper()

	data, err := yaml.Marshal(values)
	require.NoError(f.t, err, "Failed to marshal config")

	path := f.ConfigPath()
	require.NoError(f.t, os.WriteFile(path, data, consts.ModeFile), "Failed to write config")

	return path
}

// WithDotenv writes a .env file (or .env.<environment>) next to the config
func (f *Fixture) WithDotenv(environment, contents string) {
	f.t.Helper()

	name := ".env"
	if environment != "" {
		name += "." + environment
	}

	require.NoError(f.t, os.WriteFile(filepath.Join(f.Dir, name), []byte(contents), consts.ModeFile))
}

// Config loads the fixture's config file
func (f *Fixture) Config() *config.Config {
	f.t.Helper()

	cfg, err := config.LoadConfigFile(f.ConfigPath())
	require.NoError(f.t, err, "Failed to load config file")

	return cfg
}

// ConfigPath returns the path to the fixture's runsql.yaml
func (f *Fixture) ConfigPath() string {
	return filepath.Join(f.Dir, consts.DefaultConfigFile)
}

// DatabasePath returns the path of a SQLite database inside the fixture
func (f *Fixture) DatabasePath() string {
	return filepath.Join(f.Dir, "app.db")
}

// SQLiteURL returns a connection URL for the fixture's SQLite database
func (f *Fixture) SQLiteURL() string {
	return "jdbc:sqlite:" + f.DatabasePath()
}
