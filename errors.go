package keydex

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPrimaryKeyFunc is returned by Build when no primary key
	// function was configured.
	ErrMissingPrimaryKeyFunc = errors.New("primary key function is required")

	// ErrMissingHashValuesFunc is returned by Build when secondary
	// indexes are configured without a hash values function.
	ErrMissingHashValuesFunc = errors.New("hash values function is required when indexes are configured")

	// ErrInvalidSnapshot is returned by LoadFrom when the stream is not
	// a keydex snapshot or is structurally damaged.
	ErrInvalidSnapshot = errors.New("invalid snapshot stream")
)

// InvalidIndexCountError indicates a negative secondary index count.
type InvalidIndexCountError struct {
	Count int
}

func (e *InvalidIndexCountError) Error() string {
	return fmt.Sprintf("invalid index count: %d", e.Count)
}

// HashArityError indicates that the configured hash values function
// returned a slice whose length does not match the index count.
//
// This is a configuration bug in the caller. The container panics with
// this error rather than truncating or padding, since either would
// silently desynchronize the secondary indexes.
type HashArityError struct {
	Want int
	Got  int
}

func (e *HashArityError) Error() string {
	return fmt.Sprintf("hash values arity mismatch: expected %d codes, got %d", e.Want, e.Got)
}

// KeyMismatchError indicates that Set was called with a non-nil element
// whose primary key differs from the key argument.
type KeyMismatchError struct {
	Key        any
	ElementKey any
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("set key %v does not match element primary key %v", e.Key, e.ElementKey)
}

// IndexRangeError indicates a query against a secondary index slot
// outside [0, Indexes()).
type IndexRangeError struct {
	Index int
	Count int
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("secondary index %d out of range [0, %d)", e.Index, e.Count)
}

// CorruptionError indicates a broken container invariant: a primary key
// missing from its bucket during retraction, or a bucket member that no
// longer resolves to a stored element.
//
// These states are unreachable under correct, exclusive use. They mean
// a stored element was mutated in place after insertion, or internal
// state was tampered with. The container panics with this error instead
// of returning a best-effort result, because continuing would mask
// silent data corruption.
type CorruptionError struct {
	Index  int
	Detail string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("container corruption on index %d: %s", e.Index, e.Detail)
}

// UnknownCodecError indicates a snapshot header naming a codec this
// build does not provide.
type UnknownCodecError struct {
	Name string
}

func (e *UnknownCodecError) Error() string {
	return fmt.Sprintf("unknown snapshot codec %q", e.Name)
}
