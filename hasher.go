package keydex

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/hupe1980/keydex/model"
)

// Hasher derives the hash code used to bucket a query value on a
// secondary index. The container applies it to every value passed to
// ElementsFor, KeysFor, ExistsFor and CountFor.
//
// A Hasher must be deterministic: equal values must always produce the
// same code. Query values of any type are accepted; a value whose code
// matches no bucket simply yields an empty result.
type Hasher interface {
	Hash(v any) model.HashCode
}

// DefaultHasher hashes common scalar types by value and everything else
// through its formatted representation.
//
// Integers (signed and unsigned) hash to their own value, so
// Hash(uint8(7)) == Hash(int64(7)). Floats with an exact integer value
// hash like that integer. Strings and byte slices hash with FNV-1a 64.
type DefaultHasher struct{}

// Hash implements Hasher.
func (DefaultHasher) Hash(v any) model.HashCode {
	switch x := v.(type) {
	case string:
		return hashBytes([]byte(x))
	case []byte:
		return hashBytes(x)
	case int:
		return model.HashCode(int64(x))
	case int8:
		return model.HashCode(int64(x))
	case int16:
		return model.HashCode(int64(x))
	case int32:
		return model.HashCode(int64(x))
	case int64:
		return model.HashCode(x)
	case uint:
		return model.HashCode(x)
	case uint8:
		return model.HashCode(x)
	case uint16:
		return model.HashCode(x)
	case uint32:
		return model.HashCode(x)
	case uint64:
		return model.HashCode(x)
	case uintptr:
		return model.HashCode(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case float32:
		return hashFloat(float64(x))
	case float64:
		return hashFloat(x)
	default:
		return hashBytes(fmt.Appendf(nil, "%v", v))
	}
}

func hashBytes(b []byte) model.HashCode {
	h := fnv.New64a()
	h.Write(b)
	return model.HashCode(h.Sum64())
}

// hashFloat folds integral floats onto the integer codes so that a
// query for 3.0 finds elements indexed under 3.
func hashFloat(f float64) model.HashCode {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return model.HashCode(int64(f))
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	return hashBytes(buf[:])
}

// Hash returns the code DefaultHasher assigns to v. It is the natural
// building block for HashValues configuration functions.
func Hash(v any) HashCode {
	return DefaultHasher{}.Hash(v)
}

// Codes hashes each value with DefaultHasher, in argument order.
//
// Typical use in a container configuration:
//
//	keydex.New[string, User](func(u User) string { return u.ID }).
//	    Indexes(2).
//	    HashValues(func(u User) []keydex.HashCode {
//	        return keydex.Codes(u.City, u.Age)
//	    })
func Codes(vs ...any) []HashCode {
	codes := make([]HashCode, len(vs))
	for i, v := range vs {
		codes[i] = Hash(v)
	}
	return codes
}
