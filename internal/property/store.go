package property

import (
	"encoding/json"

	"github.com/tilekit/tilemap/internal/core/event"
)

// Change describes one accepted Set or Remove on a Store.
type Change struct {
	Key string
	Old Value
	New Value
	// HadOld is false when Key had no value before the change.
	HadOld bool
	// Removed is true when the change deleted Key; New is then null.
	Removed bool
}

// Store is an ordered string-keyed map of Values that publishes a Change for
// every accepted write. Overwriting a key keeps its original position.
type Store struct {
	keys   []string
	values map[string]Value
	events event.Registry[Change]
}

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string]Value)}
}

// FromPairs creates a store holding pairs in order. No events are published
// during construction since nobody can be subscribed yet.
func FromPairs(pairs Pairs) (*Store, error) {
	s := New()
	for _, p := range pairs {
		if err := s.Set(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Events exposes the registry Change events are published on.
func (s *Store) Events() *event.Registry[Change] {
	return &s.events
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key holds a value.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.keys...)
}

// All returns every entry in insertion order.
func (s *Store) All() Pairs {
	out := make(Pairs, len(s.keys))
	for i, k := range s.keys {
		out[i] = Pair{Key: k, Value: s.values[k]}
	}
	return out
}

// Set stores v under key. Writes with an empty key are ignored.
func (s *Store) Set(key string, v Value) error {
	if err := v.validate(); err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	old, had := s.values[key]
	if !had {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
	s.events.Publish(Change{Key: key, Old: old, New: v, HadOld: had})
	return nil
}

// SetAny converts x with Of and stores it under key.
func (s *Store) SetAny(key string, x any) error {
	v, err := Of(x)
	if err != nil {
		return err
	}
	return s.Set(key, v)
}

// Remove deletes key. A Change is published even when key was absent.
func (s *Store) Remove(key string) {
	old, had := s.values[key]
	if had {
		delete(s.values, key)
		for i, k := range s.keys {
			if k == key {
				s.keys = append(s.keys[:i], s.keys[i+1:]...)
				break
			}
		}
	}
	s.events.Publish(Change{Key: key, Old: old, HadOld: had, Removed: true})
}

// Clone returns an independent store with the same entries and no
// listeners.
func (s *Store) Clone() *Store {
	c := &Store{
		keys:   append([]string(nil), s.keys...),
		values: make(map[string]Value, len(s.values)),
	}
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON writes the store as its ordered pair list.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.All())
}
