package driver

import (
	"context"

	"go.uber.org/zap"
)

// Connector opens sessions for a resolved driver and data source name.
type Connector struct {
	driver *Driver
	url    *URL
	dsn    string
	params ConnectParams
	logger *zap.Logger
}

func newConnector(d *Driver, u *URL, dsn string, p ConnectParams) *Connector {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p.Driver = d.Name
	p.Logger = logger

	return &Connector{
		driver: d,
		url:    u,
		dsn:    dsn,
		params: p,
		logger: logger.With(zap.String("driver", d.Name)),
	}
}

// Driver returns the resolved driver.
func (c *Connector) Driver() *Driver {
	return c.driver
}

// URL returns the parsed connection URL.
func (c *Connector) URL() *URL {
	return c.url
}

// Open dials the database and returns a new session with auto-commit on.
// Dial failures are reported as *ConnectionError.
func (c *Connector) Open(ctx context.Context) (Session, error) {
	c.logger.Debug("Opening connection", zap.String("url", c.url.Redacted()))

	sess, err := c.driver.Open(ctx, c.dsn, c.params)
	if err != nil {
		return nil, &ConnectionError{Driver: c.driver.Name, Err: err}
	}

	info, err := sess.Info(ctx)
	if err != nil {
		c.logger.Warn("Unable to read server info", zap.Error(err))
		return sess, nil
	}

	c.logger.Info("Connected to database",
		zap.String("url", c.url.Redacted()),
		zap.String("product", info.Product),
		zap.String("version", info.Version),
	)

	return sess, nil
}
