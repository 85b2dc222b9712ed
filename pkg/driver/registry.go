package driver

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Registry maps driver names and URL subprotocols to drivers.
//
// Registries are plain values. Builtin returns a new registry each time, so
// registering a driver never affects other callers.
type Registry struct {
	drivers      map[string]*Driver
	subprotocols map[string]*Driver
}

// NewRegistry creates a registry containing the given drivers.
func NewRegistry(drivers ...*Driver) *Registry {
	r := &Registry{
		drivers:      make(map[string]*Driver),
		subprotocols: make(map[string]*Driver),
	}

	for _, d := range drivers {
		r.Register(d)
	}

	return r
}

// Register adds a driver, replacing any driver with the same name. The
// driver's subprotocols are mapped to it for auto-detection.
func (r *Registry) Register(d *Driver) {
	name := strings.ToLower(d.Name)
	if prev, ok := r.drivers[name]; ok {
		for _, sub := range prev.Subprotocols {
			sub = strings.ToLower(sub)
			if r.subprotocols[sub] == prev {
				delete(r.subprotocols, sub)
			}
		}
	}

	r.drivers[name] = d
	for _, sub := range d.Subprotocols {
		r.subprotocols[strings.ToLower(sub)] = d
	}
}

// Lookup returns the driver registered under name.
func (r *Registry) Lookup(name string) (*Driver, error) {
	d, ok := r.drivers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Wrapf(ErrDriverNotFound, "unknown driver %q", name)
	}

	return d, nil
}

// Detect returns the driver registered for a URL subprotocol.
func (r *Registry) Detect(subprotocol string) (*Driver, error) {
	d, ok := r.subprotocols[strings.ToLower(subprotocol)]
	if !ok {
		return nil, errors.Wrapf(ErrUndetectableDriver, "subprotocol %q", subprotocol)
	}

	return d, nil
}

// Drivers returns every registered driver sorted by name.
func (r *Registry) Drivers() []*Driver {
	drivers := make([]*Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		drivers = append(drivers, d)
	}

	sort.Slice(drivers, func(i, j int) bool {
		return drivers[i].Name < drivers[j].Name
	})

	return drivers
}

// Connector resolves the driver for p and prepares its data source name
// without dialing the database.
//
// An explicitly named driver that is not registered fails with
// ErrDriverNotFound. Without a name the driver is detected from the URL,
// failing with ErrUndetectableDriver.
//
// Example:
//
//	conn, err := driver.Builtin().Connector(driver.ConnectParams{
//		URL:      "jdbc:postgresql://localhost:5432/app",
//		Username: "app",
//		Password: "secret",
//	})
//	if err != nil {
//		return err
//	}
//
//	sess, err := conn.Open(ctx)
func (r *Registry) Connector(p ConnectParams) (*Connector, error) {
	u, err := ParseURL(p.URL)
	if err != nil {
		return nil, err
	}

	var d *Driver
	if strings.TrimSpace(p.Driver) != "" {
		d, err = r.Lookup(p.Driver)
	} else {
		d, err = r.Detect(u.Subprotocol)
	}
	if err != nil {
		return nil, err
	}

	dsn, err := d.DSN(u, p.Username, p.Password)
	if err != nil {
		return nil, err
	}

	return newConnector(d, u, dsn, p), nil
}
