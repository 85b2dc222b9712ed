package driver

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// sqlSession is a Session backed by a single database/sql connection.
//
// While auto-commit is off a transaction is begun lazily before the next
// statement and ended by Commit.
type sqlSession struct {
	name         string
	product      string
	versionQuery string

	db         *sql.DB
	conn       *sql.Conn
	tx         *sql.Tx
	autoCommit bool
}

// openSQL returns an OpenFunc for a database/sql driver registered as
// sqlDriver. versionQuery must return the server version as a single value.
func openSQL(sqlDriver, product, versionQuery string) OpenFunc {
	return func(ctx context.Context, dsn string, p ConnectParams) (Session, error) {
		db, err := sql.Open(sqlDriver, dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s database", sqlDriver)
		}

		db.SetMaxOpenConns(1)

		conn, err := db.Conn(ctx)
		if err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "failed to acquire connection")
		}

		if err := conn.PingContext(ctx); err != nil {
			_ = conn.Close()
			_ = db.Close()
			return nil, errors.Wrap(err, "failed to ping database")
		}

		return &sqlSession{
			name:         p.Driver,
			product:      product,
			versionQuery: versionQuery,
			db:           db,
			conn:         conn,
			autoCommit:   true,
		}, nil
	}
}

func (s *sqlSession) SetAutoCommit(ctx context.Context, enabled bool) error {
	if enabled == s.autoCommit {
		return nil
	}

	// Re-enabling auto-commit makes pending work durable.
	if enabled && s.tx != nil {
		if err := s.Commit(ctx); err != nil {
			return err
		}
	}

	s.autoCommit = enabled
	return nil
}

func (s *sqlSession) Exec(ctx context.Context, query string) error {
	if !s.autoCommit && s.tx == nil {
		tx, err := s.conn.BeginTx(ctx, nil)
		if err != nil {
			return errors.Wrap(err, "failed to begin transaction")
		}

		s.tx = tx
	}

	var err error
	if s.tx != nil {
		_, err = s.tx.ExecContext(ctx, query)
	} else {
		_, err = s.conn.ExecContext(ctx, query)
	}

	return err
}

func (s *sqlSession) Commit(context.Context) error {
	if s.tx == nil {
		return nil
	}

	tx := s.tx
	s.tx = nil

	return tx.Commit()
}

func (s *sqlSession) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if s.tx != nil {
		keep(s.tx.Rollback())
		s.tx = nil
	}

	keep(s.conn.Close())
	keep(s.db.Close())

	return firstErr
}

func (s *sqlSession) Info(ctx context.Context) (Info, error) {
	info := Info{Driver: s.name, Product: s.product}

	var row *sql.Row
	if s.tx != nil {
		row = s.tx.QueryRowContext(ctx, s.versionQuery)
	} else {
		row = s.conn.QueryRowContext(ctx, s.versionQuery)
	}

	if err := row.Scan(&info.Version); err != nil {
		return info, errors.Wrap(err, "failed to query server version")
	}

	return info, nil
}
