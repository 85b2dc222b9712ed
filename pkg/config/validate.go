package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/runsql/pkg/driver"
)

// ErrInvalidConfig is the root of every configuration error. Configuration
// errors are raised before any statement executes.
var ErrInvalidConfig = errors.New("invalid configuration")

// IsConfigurationError reports whether err was caused by missing, conflicting
// or malformed settings, including connection URLs that cannot be parsed and
// drivers that cannot be detected.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, driver.ErrInvalidURL) ||
		errors.Is(err, driver.ErrUndetectableDriver)
}

// Validate checks that the configuration describes a runnable job and
// normalizes it in place.
//
// Username and password must be present but may be empty. The URL must be a
// well-formed connection URL. Surrounding whitespace is trimmed from all three.
// When Driver is empty it is detected from the URL subprotocol using reg.
// Exactly one of Script and ScriptFiles must be set.
//
// Example:
//
//	cfg.Driver = ""
//	cfg.URL = "jdbc:mysql://localhost:3306/app"
//	if err := cfg.Validate(driver.Builtin()); err != nil {
//		return err
//	}
//
//	fmt.Println(cfg.Driver) // mysql
func (c *Config) Validate(reg *driver.Registry) error {
	if c.Username == nil {
		return invalid("Missing property 'username'")
	}

	if c.Password == nil {
		return invalid("Missing property 'password'")
	}

	if strings.TrimSpace(c.URL) == "" {
		return invalid("Missing property 'url'")
	}

	username := strings.TrimSpace(*c.Username)
	password := strings.TrimSpace(*c.Password)
	c.Username = &username
	c.Password = &password
	c.URL = strings.TrimSpace(c.URL)
	c.Driver = strings.TrimSpace(c.Driver)

	u, err := driver.ParseURL(c.URL)
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}

	if c.Driver == "" {
		d, err := reg.Detect(u.Subprotocol)
		if err != nil {
			return invalid("Missing property 'driver' (could not auto-detect from connection URL)")
		}

		c.Driver = d.Name
	}

	hasFiles := len(c.ScriptFiles) > 0
	if c.Script != "" && hasFiles {
		return invalid("You cannot specify both 'script_files' and 'script' properties")
	}

	if c.Script == "" && !hasFiles {
		return invalid("You must specify either 'script_files' or 'script'")
	}

	return nil
}

func invalid(msg string) error {
	return errors.Wrap(ErrInvalidConfig, msg)
}
