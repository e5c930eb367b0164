package store

import "iter"

// Map is the primary store: a map-backed mapping from a unique key to
// its stored value. It is the single source of truth for whether an
// element is present.
//
// Map performs no locking. The owning container is documented as
// caller-synchronized, so the store inherits that contract.
type Map[K comparable, V any] struct {
	m map[K]V
}

// NewMap creates an empty primary store.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		m: make(map[K]V),
	}
}

// Lookup returns the value stored under key.
func (s *Map[K, V]) Lookup(key K) (V, bool) {
	v, ok := s.m[key]
	return v, ok
}

// Upsert stores value under key, replacing any previous value.
func (s *Map[K, V]) Upsert(key K, value V) {
	s.m[key] = value
}

// Delete removes key and returns the value it held. ok is false when
// the key was not present.
func (s *Map[K, V]) Delete(key K) (V, bool) {
	v, ok := s.m[key]
	if ok {
		delete(s.m, key)
	}
	return v, ok
}

// Len returns the number of stored entries.
func (s *Map[K, V]) Len() int {
	return len(s.m)
}

// All returns an iterator over all entries. Iteration order is
// unspecified. The store must not be mutated during iteration.
func (s *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range s.m {
			if !yield(k, v) {
				return
			}
		}
	}
}
