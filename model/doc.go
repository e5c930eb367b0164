// Package model defines core types used throughout keydex.
//
// # Identity Types
//
//   - HashCode: Per-index integer derived from an element or query value (uint64)
//   - LocalID: Dense, container-assigned footprint identity (uint32)
//
// The user-facing primary key is a type parameter on the container and
// therefore has no representation here.
package model
