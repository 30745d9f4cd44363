// Package config holds the workspace and layout configuration: which
// layout each workspace starts with, key bindings, and window rules.
package config

// Driver persists a Config somewhere, typically a YAML file.
type Driver interface {
	Exists() (bool, error)
	Write(cfg Config) error
	Read() (Config, error)
}

// Store reads and writes the configuration through a Driver. The
// driver is the single source of truth; Store never caches.
type Store struct {
	driver Driver
}

// NewStore seeds the driver with the default configuration when
// nothing has been written yet.
func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(defaultConfig); err != nil {
			return Store{}, err
		}
	}
	return Store{driver: driver}, nil
}

func (s *Store) GetConfig() (Config, error) {
	return s.driver.Read()
}

// UpdateConfig applies fn to the stored configuration and writes the
// result back. Nothing is written when fn returns an error.
func (s *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	cfg, err := s.driver.Read()
	if err != nil {
		return err
	}
	cfg, err = fn(cfg)
	if err != nil {
		return err
	}
	return s.driver.Write(cfg)
}
