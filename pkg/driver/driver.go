package driver

import (
	"context"
	"crypto/tls"

	"go.uber.org/zap"
)

type (
	// Session is a single open connection to a database.
	//
	// Auto-commit is on when a session is opened. Turning it off makes the
	// statements that follow part of one unit of work which is made durable by
	// Commit. Closing a session with uncommitted work discards that work.
	Session interface {
		SetAutoCommit(ctx context.Context, enabled bool) error
		Exec(ctx context.Context, query string) error
		Commit(ctx context.Context) error
		Close() error

		// Info reports the driver and server for diagnostics
		Info(ctx context.Context) (Info, error)
	}

	// Info describes the driver and server behind a session.
	Info struct {
		Driver  string
		Product string
		Version string
	}

	// ConnectParams carries everything needed to open a session.
	ConnectParams struct {
		// URL is the connection URL, e.g. jdbc:mysql://localhost:3306/app
		URL string

		// Driver names a registered driver. When empty the driver is detected
		// from the URL subprotocol.
		Driver string

		Username string
		Password string

		// TLS is used by drivers that accept a client TLS configuration
		TLS *tls.Config

		// Logger receives connection diagnostics (defaults to a no-op logger)
		Logger *zap.Logger
	}

	// DSNFunc converts a parsed URL and credentials into the data source name
	// understood by the underlying client library.
	DSNFunc func(u *URL, username, password string) (string, error)

	// OpenFunc dials the database described by dsn.
	OpenFunc func(ctx context.Context, dsn string, params ConnectParams) (Session, error)

	// Driver is a named way to turn a URL and credentials into a Session.
	Driver struct {
		// Name identifies the driver in configuration, e.g. pgx
		Name string

		// Description names the database product for display
		Description string

		// Subprotocols lists the URL subprotocols this driver is detected for
		Subprotocols []string

		DSN  DSNFunc
		Open OpenFunc
	}
)
