package config_test

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/pseudomuto/runsql/pkg/config"
	"github.com/pseudomuto/runsql/pkg/driver"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func validConfig() *Config {
	cfg := Default()
	cfg.URL = "jdbc:mysql://localhost:3306/"
	cfg.Username = ptr("root")
	cfg.Password = ptr("")
	cfg.Driver = "mysql"
	cfg.Script = "SELECT 1;"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "missing username",
			modify: func(c *Config) { c.Username = nil },
			errMsg: "Missing property 'username'",
		},
		{
			name:   "missing password",
			modify: func(c *Config) { c.Password = nil },
			errMsg: "Missing property 'password'",
		},
		{
			name:   "missing url",
			modify: func(c *Config) { c.URL = "" },
			errMsg: "Missing property 'url'",
		},
		{
			name:   "blank url",
			modify: func(c *Config) { c.URL = "   " },
			errMsg: "Missing property 'url'",
		},
		{
			name:   "non-jdbc url",
			modify: func(c *Config) { c.URL = "xxx:mysql://localhost:3306/" },
			errMsg: "Invalid/non-JDBC url",
		},
		{
			name: "undetectable driver",
			modify: func(c *Config) {
				c.URL = "jdbc:unknowndb://localhost:3306/"
				c.Driver = ""
			},
			errMsg: "Missing property 'driver'",
		},
		{
			name: "both script sources",
			modify: func(c *Config) {
				c.ScriptFiles = []string{"foo.sql"}
			},
			errMsg: "You cannot specify both 'script_files' and 'script' properties",
		},
		{
			name:   "no script source",
			modify: func(c *Config) { c.Script = "" },
			errMsg: "You must specify either 'script_files' or 'script'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate(driver.Builtin())
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.True(t, IsConfigurationError(err))
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	t.Run("explicit driver", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, cfg.Validate(driver.Builtin()))
		require.Equal(t, "mysql", cfg.Driver)
	})

	t.Run("driver detected from url", func(t *testing.T) {
		cfg := validConfig()
		cfg.Driver = ""

		require.NoError(t, cfg.Validate(driver.Builtin()))
		require.Equal(t, "mysql", cfg.Driver)
	})

	t.Run("unknown explicit driver is left for the connector", func(t *testing.T) {
		cfg := validConfig()
		cfg.URL = "jdbc:unknowndb://localhost:3306/"
		cfg.Driver = "custom"

		require.NoError(t, cfg.Validate(driver.Builtin()))
		require.Equal(t, "custom", cfg.Driver)
	})

	t.Run("script files only", func(t *testing.T) {
		cfg := validConfig()
		cfg.Script = ""
		cfg.ScriptFiles = []string{"foo.sql"}

		require.NoError(t, cfg.Validate(driver.Builtin()))
	})

	t.Run("values are trimmed", func(t *testing.T) {
		cfg := validConfig()
		cfg.URL = "  jdbc:postgresql://localhost:5432/app \t"
		cfg.Username = ptr(" app ")
		cfg.Password = ptr(" secret\t")
		cfg.Driver = " pgx "

		require.NoError(t, cfg.Validate(driver.Builtin()))
		require.Equal(t, "jdbc:postgresql://localhost:5432/app", cfg.URL)
		require.Equal(t, "app", *cfg.Username)
		require.Equal(t, "secret", *cfg.Password)
		require.Equal(t, "pgx", cfg.Driver)
	})
}

func TestIsConfigurationError(t *testing.T) {
	require.True(t, IsConfigurationError(ErrInvalidConfig))
	require.True(t, IsConfigurationError(errors.Wrap(driver.ErrInvalidURL, "bad")))
	require.True(t, IsConfigurationError(errors.Wrap(driver.ErrUndetectableDriver, "bad")))
	require.False(t, IsConfigurationError(driver.ErrDriverNotFound))
	require.False(t, IsConfigurationError(errors.New("boom")))
	require.False(t, IsConfigurationError(nil))
}
