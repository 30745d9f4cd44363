package entity

import "sync"

// Key names a Store entry. Packages declare their own keys so there is
// no ambient type reflection involved in lookups.
type Key string

// Store is per-entity side storage. Values are copied in and out under
// the lock; the lock is never held while core code runs.
type Store struct {
	mu     sync.Mutex
	values map[Key]any
}

func NewStore() Store {
	return Store{values: make(map[Key]any)}
}

func Put[T any](s *Store, key Key, value T) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

func Get[T any](s *Store, key Key) (T, bool) {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		var zero T
		return zero, false
	}
	value, ok := raw.(T)
	return value, ok
}

// Take removes and returns the entry.
func Take[T any](s *Store, key Key) (T, bool) {
	s.mu.Lock()
	raw, ok := s.values[key]
	delete(s.values, key)
	s.mu.Unlock()
	if !ok {
		var zero T
		return zero, false
	}
	value, ok := raw.(T)
	return value, ok
}

func Contains(s *Store, key Key) bool {
	s.mu.Lock()
	_, ok := s.values[key]
	s.mu.Unlock()
	return ok
}
