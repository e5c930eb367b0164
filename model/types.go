package model

// HashCode is the integer derived from an element (or from a query
// value) for one secondary index slot.
//
// Hash codes are not identities: two distinct attribute values may map
// to the same code and then share a bucket.
type HashCode uint64

// LocalID is a dense, container-assigned identity for one stored
// footprint. It is transient: replacing an element under the same
// primary key allocates a fresh LocalID.
type LocalID uint32
