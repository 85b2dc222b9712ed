package clickhouse

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"
)

// ErrTransactionsUnsupported is returned when a caller asks for statements to
// be grouped into a single unit of work. ClickHouse applies every statement
// as it executes.
var ErrTransactionsUnsupported = errors.New("clickhouse does not support multi-statement transactions")

type (
	// TLSSettings holds the certificate files used for mTLS connections.
	TLSSettings struct {
		CAFile   string
		CertFile string
		KeyFile  string
	}

	// ClientOptions configures a Client.
	ClientOptions struct {
		// TLSSettings are loaded with GetTLSConfig when TLS is nil and all files
		// are set
		TLSSettings

		// TLS overrides any TLS configuration derived from the DSN or TLSSettings
		TLS *tls.Config
	}

	// Client represents a ClickHouse database connection
	Client struct {
		conn driver.Conn
	}
)

// Enabled reports whether every certificate file is set.
func (s TLSSettings) Enabled() bool {
	return s.CAFile != "" && s.CertFile != "" && s.KeyFile != ""
}

// NewClient creates a new ClickHouse client connection.
// The DSN may be a plain "host:port" (e.g., "localhost:9000") or a full
// clickhouse:// URL.
//
// Example:
//
//	client, err := clickhouse.NewClient(ctx, "clickhouse://default:@localhost:9000/default")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Exec(ctx, "CREATE TABLE t (id UInt64) ENGINE = Memory"); err != nil {
//	    log.Fatal(err)
//	}
func NewClient(ctx context.Context, dsn string) (*Client, error) {
	return NewClientWithOptions(ctx, dsn, ClientOptions{})
}

// NewClientWithOptions creates a new ClickHouse client connection with
// additional options. The connection is verified with a ping before the
// client is returned.
func NewClientWithOptions(ctx context.Context, dsn string, opts ClientOptions) (*Client, error) {
	options, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.TLS != nil:
		options.TLS = opts.TLS
	case opts.TLSSettings.Enabled():
		cfg, err := GetTLSConfig(opts)
		if err != nil {
			return nil, err
		}

		options.TLS = cfg
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to ClickHouse")
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to connect to ClickHouse")
	}

	return &Client{conn: conn}, nil
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Exec executes a single statement, discarding any result.
func (c *Client) Exec(ctx context.Context, query string) error {
	return c.conn.Exec(ctx, query)
}

// ServerVersion returns the version string reported by the server, e.g.
// "25.7.1.3997".
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", errors.Wrap(err, "failed to query ClickHouse version")
	}

	return version, nil
}

// SetAutoCommit accepts only true. Disabling auto-commit fails with
// ErrTransactionsUnsupported so that a script never runs with the false
// expectation of atomicity.
func (c *Client) SetAutoCommit(_ context.Context, enabled bool) error {
	if !enabled {
		return ErrTransactionsUnsupported
	}

	return nil
}

// Commit is a no-op since every statement is applied as it executes.
func (c *Client) Commit(context.Context) error {
	return nil
}

func parseDSN(dsn string) (*clickhouse.Options, error) {
	if !strings.Contains(dsn, "://") {
		return &clickhouse.Options{Addr: []string{dsn}}, nil
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ClickHouse DSN")
	}

	return options, nil
}
