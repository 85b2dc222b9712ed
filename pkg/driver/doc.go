// Package driver turns a connection URL and credentials into a database
// Session.
//
// Connection URLs follow the jdbc:<subprotocol>:<rest> convention so that
// existing configurations carry over unchanged. The subprotocol selects a
// Driver when none is named explicitly, and the driver converts the remainder
// into the data source name of the underlying Go client library.
//
// Drivers live in an explicit Registry value. There is no global registry:
// callers start from Builtin and may Register their own drivers on top.
//
//	reg := driver.Builtin()
//	conn, err := reg.Connector(driver.ConnectParams{
//		URL:      "jdbc:mysql://localhost:3306/app",
//		Username: "app",
//		Password: "secret",
//		Logger:   logger,
//	})
//	if err != nil {
//		return err // ErrInvalidURL, ErrDriverNotFound or ErrUndetectableDriver
//	}
//
//	sess, err := conn.Open(ctx) // *ConnectionError on failure
//	if err != nil {
//		return err
//	}
//	defer sess.Close()
//
// Sessions backed by database/sql hold a single dedicated connection. When
// auto-commit is turned off, statements run inside a transaction that is begun
// lazily and made durable by Commit. Closing the session rolls back anything
// left uncommitted.
package driver
