// Package keydex builder: fluent construction of Container instances.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
package keydex

import (
	"github.com/hupe1980/keydex/codec"
	"github.com/hupe1980/keydex/inverted"
	"github.com/hupe1980/keydex/model"
	"github.com/hupe1980/keydex/store"
)

// New creates a container builder for elements of type E keyed by K.
// primaryKey must be a total, deterministic function: for as long as an
// element is stored, it must keep returning the same key.
//
// Example:
//
//	dex, err := keydex.New[string, User](func(u User) string { return u.ID }).
//	    Indexes(2).
//	    HashValues(func(u User) []keydex.HashCode {
//	        return keydex.Codes(u.City, u.Age)
//	    }).
//	    Build()
func New[K comparable, E any](primaryKey func(E) K) Builder[K, E] {
	return Builder[K, E]{
		primaryKey: primaryKey,
	}
}

// Builder is an immutable fluent builder for creating Container
// instances. Each method returns a new builder with the updated
// configuration.
type Builder[K comparable, E any] struct {
	primaryKey func(E) K
	numIndexes int
	hashValues func(E) []HashCode
	opts       options
}

// Indexes sets the secondary index count N. N is fixed for the lifetime
// of the container; Build fails on a negative value. Default: 0.
func (b Builder[K, E]) Indexes(n int) Builder[K, E] {
	b.numIndexes = n
	return b
}

// HashValues sets the function deriving one hash code per secondary
// index from an element, in index order. It must return exactly
// Indexes() codes and, for a logically unchanged element, always the
// same ones. Required when Indexes is positive.
func (b Builder[K, E]) HashValues(fn func(E) []HashCode) Builder[K, E] {
	b.hashValues = fn
	return b
}

// Hasher sets the hasher applied to query values.
// Default: DefaultHasher.
func (b Builder[K, E]) Hasher(h Hasher) Builder[K, E] {
	b.opts.hasher = h
	return b
}

// Codec sets the codec used by SaveTo/LoadFrom snapshots.
// Default: codec.Default.
func (b Builder[K, E]) Codec(c codec.Codec) Builder[K, E] {
	b.opts.codec = c
	return b
}

// Logger sets the structured logger. Default: NoopLogger().
func (b Builder[K, E]) Logger(l *Logger) Builder[K, E] {
	b.opts.logger = l
	return b
}

// Metrics sets the metrics collector. Default: NoopMetricsCollector.
func (b Builder[K, E]) Metrics(m MetricsCollector) Builder[K, E] {
	b.opts.metrics = m
	return b
}

// Build validates the configuration and creates an empty container.
//
// It fails fast with ErrMissingPrimaryKeyFunc, *InvalidIndexCountError
// or ErrMissingHashValuesFunc; the hash arity contract is checked later,
// at the first operation that invokes the hash values function.
func (b Builder[K, E]) Build() (*Container[K, E], error) {
	if b.primaryKey == nil {
		return nil, ErrMissingPrimaryKeyFunc
	}
	if b.numIndexes < 0 {
		return nil, &InvalidIndexCountError{Count: b.numIndexes}
	}
	if b.numIndexes > 0 && b.hashValues == nil {
		return nil, ErrMissingHashValuesFunc
	}

	opts := b.opts.withDefaults()

	indexes := make([]*inverted.Index, b.numIndexes)
	for i := range indexes {
		indexes[i] = inverted.New()
	}

	return &Container[K, E]{
		keyOf:      b.primaryKey,
		hashesOf:   b.hashValues,
		numIndexes: b.numIndexes,
		primary:    store.NewMap[K, entry[E]](),
		indexes:    indexes,
		byID:       make(map[model.LocalID]K),
		hasher:     opts.hasher,
		codec:      opts.codec,
		logger:     opts.logger,
		metrics:    opts.metrics,
	}, nil
}
