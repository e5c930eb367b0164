// Package keydex provides an embedded, multi-index keyed collection for Go.
//
// A Container maintains a primary mapping from a unique key to an
// element, plus a fixed number of secondary indexes that bucket
// elements by derived hash codes. Lookups by primary key and by any
// indexed attribute are O(1) average, with no database involved.
//
// # Quick Start
//
// Create a container with a type-safe builder:
//
//	type User struct {
//	    ID   string
//	    City string
//	    Age  int
//	}
//
//	dex, err := keydex.New[string, User](func(u User) string { return u.ID }).
//	    Indexes(2).
//	    HashValues(func(u User) []keydex.HashCode {
//	        return keydex.Codes(u.City, u.Age)
//	    }).
//	    Build()
//	if err != nil {
//	    panic(err)
//	}
//
// Insert and query:
//
//	dex.Put(User{ID: "u1", City: "Berlin", Age: 30})
//	dex.Put(User{ID: "u2", City: "Berlin", Age: 41})
//
//	berliners := dex.ElementsFor("Berlin", 0) // both users
//	u, ok := dex.Get("u1")
//
// Re-putting an element under an existing key fully retracts the old
// element's footprint from every secondary index before the new one is
// installed, so updates that change indexed attributes stay correct.
//
// # Consistency Contract
//
// Elements are treated as immutable snapshots taken at insertion time.
// Mutating shared state reachable from a stored element (e.g. through a
// pointer) without re-putting it leaves the secondary indexes derived
// from the stale attributes; the behavior of subsequent deletes and
// queries is then undefined and typically ends in a CorruptionError
// panic. Store value types, or re-put after every change.
//
// Buckets are keyed by hash code, not by value. Two distinct attribute
// values that collide on their code share a bucket and cross-match in
// queries; choose hash inputs accordingly.
//
// # Concurrency
//
// A Container performs no locking and gives no thread-safety guarantee.
// Every operation runs to completion before returning, so confining the
// container to one goroutine, or serializing access with an external
// mutex, is sufficient.
package keydex

import (
	"iter"
	"time"

	"github.com/hupe1980/keydex/codec"
	"github.com/hupe1980/keydex/inverted"
	"github.com/hupe1980/keydex/model"
	"github.com/hupe1980/keydex/store"
)

// HashCode is the integer a secondary index buckets by.
// It aliases model.HashCode for use in configuration functions.
type HashCode = model.HashCode

// Container is a keyed collection with N equality-bucketed secondary
// indexes. Use the builder returned by New to construct one.
type Container[K comparable, E any] struct {
	keyOf      func(E) K
	hashesOf   func(E) []HashCode
	numIndexes int

	primary *store.Map[K, entry[E]]
	indexes []*inverted.Index
	byID    map[model.LocalID]K
	nextID  model.LocalID

	hasher  Hasher
	codec   codec.Codec
	logger  *Logger
	metrics MetricsCollector
}

// entry is one primary store record: the element snapshot plus the
// footprint identity its bucket memberships are filed under.
type entry[E any] struct {
	elem E
	id   model.LocalID
}

// Indexes returns the configured secondary index count N.
// It is fixed for the lifetime of the container.
func (c *Container[K, E]) Indexes() int {
	return c.numIndexes
}

// Len returns the number of stored elements.
func (c *Container[K, E]) Len() int {
	return c.primary.Len()
}

// Put inserts element, replacing any element stored under the same
// primary key. On replacement the superseded element's footprint is
// fully retracted from every secondary index before the new footprint
// is installed.
//
// Put panics with *HashArityError if the configured hash values
// function returns a slice whose length differs from Indexes().
func (c *Container[K, E]) Put(element E) {
	start := time.Now()
	key := c.keyOf(element)

	// Codes are derived before any mutation so an arity violation
	// aborts with the container untouched.
	codes := c.hashCodes(element)
	_, replaced := c.retract(key)
	c.install(key, element, codes)

	c.metrics.RecordPut(time.Since(start), replaced)
	c.logger.LogPut(key, replaced)
}

// Get returns the element stored under key. Absence is a normal
// outcome, reported through ok.
func (c *Container[K, E]) Get(key K) (E, bool) {
	ent, ok := c.primary.Lookup(key)
	if !ok {
		var zero E
		return zero, false
	}
	return ent.elem, true
}

// Delete removes the element stored under key and returns it. Deleting
// an absent key is a normal outcome: the zero element and false are
// returned, and nothing changes.
func (c *Container[K, E]) Delete(key K) (E, bool) {
	start := time.Now()
	elem, ok := c.retract(key)
	c.metrics.RecordDelete(time.Since(start), ok)
	c.logger.LogDelete(key, ok)
	return elem, ok
}

// DeleteElement removes the element stored under element's primary key.
// It is shorthand for Delete of the configured key function's result.
func (c *Container[K, E]) DeleteElement(element E) (E, bool) {
	return c.Delete(c.keyOf(element))
}

// Set unifies put and delete under one key-addressed operation:
// a non-nil element performs Put, nil performs Delete(key).
//
// Set panics with *KeyMismatchError if a non-nil element's primary key
// differs from key.
func (c *Container[K, E]) Set(key K, element *E) {
	if element == nil {
		c.Delete(key)
		return
	}
	if elemKey := c.keyOf(*element); elemKey != key {
		panic(&KeyMismatchError{Key: key, ElementKey: elemKey})
	}
	c.Put(*element)
}

// ElementsFor returns every stored element whose hash code on the given
// secondary index equals the code of value. Ordering is unspecified.
//
// Any value is accepted; one that matches no bucket yields an empty
// result. Distinct values whose codes collide share a bucket and are
// returned together.
//
// ElementsFor panics with *IndexRangeError when index is outside
// [0, Indexes()).
func (c *Container[K, E]) ElementsFor(value any, index int) []E {
	start := time.Now()
	c.checkIndex(index)

	bucket := c.indexes[index].Postings(c.hasher.Hash(value))
	if bucket == nil {
		c.metrics.RecordQuery(index, 0, time.Since(start))
		c.logger.LogQuery(index, 0)
		return nil
	}

	out := make([]E, 0, bucket.Cardinality())
	for id := range bucket.Iterator() {
		out = append(out, c.resolve(index, id).elem)
	}

	c.metrics.RecordQuery(index, len(out), time.Since(start))
	c.logger.LogQuery(index, len(out))
	return out
}

// KeysFor returns an iterator over the primary keys of the elements
// ElementsFor(value, index) would return. The container must not be
// mutated during iteration.
func (c *Container[K, E]) KeysFor(value any, index int) iter.Seq[K] {
	c.checkIndex(index)
	bucket := c.indexes[index].Postings(c.hasher.Hash(value))
	return func(yield func(K) bool) {
		if bucket == nil {
			return
		}
		for id := range bucket.Iterator() {
			key, ok := c.byID[id]
			if !ok {
				panic(&CorruptionError{Index: index, Detail: "bucket references an unknown footprint"})
			}
			if !yield(key) {
				return
			}
		}
	}
}

// ExistsFor reports whether at least one stored element matches value
// on the given secondary index.
func (c *Container[K, E]) ExistsFor(value any, index int) bool {
	return c.CountFor(value, index) > 0
}

// CountFor returns the number of stored elements matching value on the
// given secondary index, 0 when none do.
func (c *Container[K, E]) CountFor(value any, index int) int {
	start := time.Now()
	c.checkIndex(index)
	n := int(c.indexes[index].Cardinality(c.hasher.Hash(value)))
	c.metrics.RecordQuery(index, n, time.Since(start))
	return n
}

// All returns an iterator over all stored key/element pairs. Iteration
// order is unspecified. The container must not be mutated during
// iteration.
func (c *Container[K, E]) All() iter.Seq2[K, E] {
	return func(yield func(K, E) bool) {
		for key, ent := range c.primary.All() {
			if !yield(key, ent.elem) {
				return
			}
		}
	}
}

// install records element under key in the primary store first, then
// files the fresh footprint in every secondary index under the given
// codes.
func (c *Container[K, E]) install(key K, element E, codes []HashCode) {
	id := c.nextID
	c.nextID++

	c.primary.Upsert(key, entry[E]{elem: element, id: id})
	c.byID[id] = key
	for i, code := range codes {
		c.indexes[i].Add(code, id)
	}
}

// retract removes key's element from the primary store and withdraws
// its footprint from every secondary index. Hash codes are recomputed
// from the captured element; a bucket that does not contain the
// footprint signals corruption.
func (c *Container[K, E]) retract(key K) (E, bool) {
	ent, ok := c.primary.Delete(key)
	if !ok {
		var zero E
		return zero, false
	}

	codes := c.hashCodes(ent.elem)
	for i, code := range codes {
		if !c.indexes[i].Remove(code, ent.id) {
			panic(&CorruptionError{Index: i, Detail: "stored element missing from its bucket"})
		}
	}
	delete(c.byID, ent.id)

	return ent.elem, true
}

// hashCodes invokes the configured hash values function and enforces
// the arity contract.
func (c *Container[K, E]) hashCodes(element E) []HashCode {
	if c.numIndexes == 0 {
		return nil
	}
	codes := c.hashesOf(element)
	if len(codes) != c.numIndexes {
		panic(&HashArityError{Want: c.numIndexes, Got: len(codes)})
	}
	return codes
}

// resolve dereferences a bucket member through the primary store.
// Every bucket member must resolve; failure to do so means the indexes
// no longer project the primary store.
func (c *Container[K, E]) resolve(index int, id model.LocalID) entry[E] {
	key, ok := c.byID[id]
	if !ok {
		panic(&CorruptionError{Index: index, Detail: "bucket references an unknown footprint"})
	}
	ent, ok := c.primary.Lookup(key)
	if !ok {
		panic(&CorruptionError{Index: index, Detail: "bucket references a key absent from the primary store"})
	}
	return ent
}

func (c *Container[K, E]) checkIndex(index int) {
	if index < 0 || index >= c.numIndexes {
		panic(&IndexRangeError{Index: index, Count: c.numIndexes})
	}
}
