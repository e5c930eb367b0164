package inverted

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/keydex/model"
)

// Bucket is a duplicate-free set of LocalIDs sharing one hash code on
// one secondary index. It wraps a 32-bit Roaring Bitmap.
type Bucket struct {
	rb *roaring.Bitmap
}

// NewBucket creates an empty bucket.
func NewBucket() *Bucket {
	return &Bucket{
		rb: roaring.New(),
	}
}

// Add inserts id into the bucket and reports whether it was newly added.
func (b *Bucket) Add(id model.LocalID) bool {
	return b.rb.CheckedAdd(uint32(id))
}

// Remove deletes id from the bucket and reports whether it was a member.
func (b *Bucket) Remove(id model.LocalID) bool {
	return b.rb.CheckedRemove(uint32(id))
}

// Contains checks if id is a member of the bucket.
func (b *Bucket) Contains(id model.LocalID) bool {
	return b.rb.Contains(uint32(id))
}

// IsEmpty returns true if the bucket has no members.
func (b *Bucket) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Cardinality returns the number of members in the bucket.
func (b *Bucket) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// Iterator returns an iterator over the bucket's LocalIDs in ascending
// order. The bucket must not be mutated during iteration.
func (b *Bucket) Iterator() iter.Seq[model.LocalID] {
	return func(yield func(model.LocalID) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(model.LocalID(it.Next())) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the bucket.
func (b *Bucket) Clone() *Bucket {
	return &Bucket{
		rb: b.rb.Clone(),
	}
}
