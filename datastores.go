package portal

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Datastores holds the configured backends and the one currently serving
// requests. Switching does not copy data between backends.
type Datastores struct {
	mu     sync.RWMutex
	dsns   map[string]string
	open   map[string]*Store
	active string

	// openStore dials a backend. It runs without holding mu.
	openStore func(driver, dsn string) (*Store, error)
}

// NewDatastores opens the active backend. Other backends are opened on
// first switch.
func NewDatastores(dsns map[string]string, active string) (*Datastores, error) {
	d := &Datastores{
		dsns:      dsns,
		open:      make(map[string]*Store),
		openStore: NewStore,
	}
	if err := d.Switch(active); err != nil {
		return nil, err
	}
	return d, nil
}

// Active returns the store serving requests.
func (d *Datastores) Active() *Store {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.open[d.active]
}

// ActiveDriver returns the driver name of the active store.
func (d *Datastores) ActiveDriver() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// Available lists the configured drivers in name order.
func (d *Datastores) Available() []string {
	out := make([]string, 0, len(d.dsns))
	for name := range d.dsns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Switch makes driver the active backend, opening it if needed. Requests
// keep using the current backend while a new one is being dialed.
func (d *Datastores) Switch(driver string) error {
	dsn, ok := d.dsns[driver]
	if !ok {
		return fmt.Errorf("datastore %q is not configured", driver)
	}

	d.mu.RLock()
	_, opened := d.open[driver]
	d.mu.RUnlock()

	var fresh *Store
	if !opened {
		s, err := d.openStore(driver, dsn)
		if err != nil {
			return err
		}
		fresh = s
	}

	d.mu.Lock()
	if fresh != nil {
		if _, ok := d.open[driver]; ok {
			// A concurrent switch installed it first.
			defer fresh.Close()
		} else {
			d.open[driver] = fresh
		}
	}
	d.active = driver
	d.mu.Unlock()
	return nil
}

// Close closes every opened backend.
func (d *Datastores) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var errs []error
	for name, s := range d.open {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	d.open = make(map[string]*Store)
	return errors.Join(errs...)
}
