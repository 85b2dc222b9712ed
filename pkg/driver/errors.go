package driver

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidURL is returned for connection URLs that are not of the form
	// jdbc:<subprotocol>:<rest> or that a driver cannot interpret.
	ErrInvalidURL = errors.New("invalid connection URL")

	// ErrDriverNotFound is returned when an explicitly named driver is not
	// registered.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrUndetectableDriver is returned when no driver is registered for a URL
	// subprotocol.
	ErrUndetectableDriver = errors.New("could not auto-detect driver")
)

// ConnectionError reports a failure to establish a session with the database.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect using driver %s: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
