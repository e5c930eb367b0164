// Package inverted implements the secondary index structure used by
// keydex: a mapping from hash code to the bucket of LocalIDs whose
// elements share that code on this index slot.
//
// An empty bucket is never stored; the last Remove of a bucket deletes
// the posting entry.
package inverted

import (
	"github.com/hupe1980/keydex/model"
)

// Index maps a hash code to its bucket for a single secondary index slot.
type Index struct {
	postings map[model.HashCode]*Bucket
}

// New creates an empty secondary index.
func New() *Index {
	return &Index{postings: make(map[model.HashCode]*Bucket)}
}

// Add inserts id into the bucket for code, creating the bucket if absent.
func (ix *Index) Add(code model.HashCode, id model.LocalID) {
	b, ok := ix.postings[code]
	if !ok {
		b = NewBucket()
		ix.postings[code] = b
	}
	b.Add(id)
}

// Remove deletes id from the bucket for code and reports whether id was
// a member. A bucket left empty is removed from the index.
func (ix *Index) Remove(code model.HashCode, id model.LocalID) bool {
	b, ok := ix.postings[code]
	if !ok {
		return false
	}
	removed := b.Remove(id)
	if b.IsEmpty() {
		delete(ix.postings, code)
	}
	return removed
}

// Postings returns the bucket for code, or nil when no element carries
// that code on this index. The returned bucket is live; callers must
// not mutate it.
func (ix *Index) Postings(code model.HashCode) *Bucket {
	return ix.postings[code]
}

// Cardinality returns the size of the bucket for code, 0 when absent.
func (ix *Index) Cardinality(code model.HashCode) uint64 {
	b, ok := ix.postings[code]
	if !ok {
		return 0
	}
	return b.Cardinality()
}

// Buckets returns the number of non-empty buckets in the index.
func (ix *Index) Buckets() int {
	return len(ix.postings)
}
