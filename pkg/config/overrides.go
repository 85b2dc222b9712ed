package config

import (
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/pseudomuto/runsql/pkg/consts"
)

// Environment variables that override connection settings. They are read
// from dotenv files and from the process environment.
const (
	EnvURL      = consts.EnvPrefix + "URL"
	EnvUsername = consts.EnvPrefix + "USERNAME"
	EnvPassword = consts.EnvPrefix + "PASSWORD"
	EnvDriver   = consts.EnvPrefix + "DRIVER"
)

type (
	// LoadOptions controls how Load resolves the final configuration.
	LoadOptions struct {
		// Path is the configuration file. When empty, consts.DefaultConfigFile is
		// used if it exists.
		Path string

		// Environment selects a named overlay from Config.Environments and the
		// matching .env.<environment> file
		Environment string
	}

	// LoadFunc resolves a configuration. It is what commands depend on so that
	// tests can supply configurations directly.
	LoadFunc func(LoadOptions) (*Config, error)

	// processEnv is filled from the process environment by cleanenv.
	processEnv struct {
		URL      string `env:"RUNSQL_URL" env-description:"connection URL"`
		Username string `env:"RUNSQL_USERNAME" env-description:"database user"`
		Password string `env:"RUNSQL_PASSWORD" env-description:"database password"`
		Driver   string `env:"RUNSQL_DRIVER" env-description:"driver name"`
	}
)

// Load resolves the configuration for a run. Sources are applied from lowest
// to highest precedence:
//
//  1. the configuration file (or Default when no file exists)
//  2. the selected environment overlay
//  3. .env and .env.<environment> next to the configuration file
//  4. RUNSQL_URL, RUNSQL_USERNAME, RUNSQL_PASSWORD and RUNSQL_DRIVER
//
// Command line flags are applied by the caller on top of the result.
//
// Example:
//
//	cfg, err := config.Load(config.LoadOptions{Path: "runsql.yaml", Environment: "staging"})
//	if err != nil {
//		return err
//	}
func Load(opts LoadOptions) (*Config, error) {
	path := opts.Path
	explicit := path != ""
	if !explicit {
		path = consts.DefaultConfigFile
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if cfg, err = LoadConfigFile(path); err != nil {
			return nil, err
		}
	} else if explicit || !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}

	if err := cfg.ApplyEnvironment(opts.Environment); err != nil {
		return nil, err
	}

	if err := cfg.ApplyDotenv(filepath.Dir(path), opts.Environment); err != nil {
		return nil, err
	}

	if err := cfg.ApplyProcessEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvironment overlays the named environment onto the configuration. An
// empty name is a no-op.
func (c *Config) ApplyEnvironment(name string) error {
	if name == "" {
		return nil
	}

	env, ok := c.Environments[name]
	if !ok {
		return errors.Wrapf(ErrInvalidConfig, "unknown environment %q", name)
	}

	if env.URL != "" {
		c.URL = env.URL
	}

	if env.Username != nil {
		c.Username = env.Username
	}

	if env.Password != nil {
		c.Password = env.Password
	}

	if env.Driver != "" {
		c.Driver = env.Driver
	}

	return nil
}

// ApplyDotenv reads .env and, when env is set, .env.<env> from dir and applies
// any RUNSQL_* connection settings they contain. Later files win. Missing
// files are ignored. A key that is present with an empty value still applies,
// which allows an empty password.
func (c *Config) ApplyDotenv(dir, env string) error {
	files := []string{".env"}
	if env != "" {
		files = append(files, ".env."+env)
	}

	for _, name := range files {
		path := filepath.Join(dir, name)

		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}

		if err != nil {
			return errors.Wrapf(err, "failed to access %s", path)
		}

		if info.IsDir() {
			continue
		}

		values, err := godotenv.Read(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", path)
		}

		c.applyValues(func(key string) (string, bool) {
			v, ok := values[key]
			return v, ok
		})
	}

	return nil
}

// ApplyProcessEnv applies RUNSQL_* connection settings from the process
// environment. Unset and empty variables are ignored.
func (c *Config) ApplyProcessEnv() error {
	var env processEnv
	if err := cleanenv.ReadEnv(&env); err != nil {
		return errors.Wrap(err, "failed to read environment")
	}

	values := map[string]string{
		EnvURL:      env.URL,
		EnvUsername: env.Username,
		EnvPassword: env.Password,
		EnvDriver:   env.Driver,
	}

	c.applyValues(func(key string) (string, bool) {
		v := values[key]
		return v, v != ""
	})

	return nil
}

func (c *Config) applyValues(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvURL); ok {
		c.URL = v
	}

	if v, ok := lookup(EnvUsername); ok {
		c.Username = &v
	}

	if v, ok := lookup(EnvPassword); ok {
		c.Password = &v
	}

	if v, ok := lookup(EnvDriver); ok {
		c.Driver = v
	}
}
