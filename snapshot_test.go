package keydex

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/keydex/codec"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	src := newUserDex(t)
	src.Put(user{ID: "u1", City: "Berlin", Age: 30})
	src.Put(user{ID: "u2", City: "Berlin", Age: 41})
	src.Put(user{ID: "u3", City: "Hamburg", Age: 30})

	var buf bytes.Buffer
	require.NoError(t, src.SaveTo(&buf))

	dst := newUserDex(t)
	require.NoError(t, dst.LoadFrom(&buf))

	assert.Equal(t, 3, dst.Len())

	got, ok := dst.Get("u2")
	require.True(t, ok)
	assert.Equal(t, user{ID: "u2", City: "Berlin", Age: 41}, got)

	// Secondary indexes are rebuilt from configuration, not carried in
	// the stream.
	assert.Equal(t, 2, dst.CountFor("Berlin", 0))
	assert.Equal(t, 2, dst.CountFor(30, 1))

	// The loaded container keeps mutating correctly.
	dst.Put(user{ID: "u2", City: "Munich", Age: 41})
	assert.Equal(t, 1, dst.CountFor("Berlin", 0))
	assert.Equal(t, 1, dst.CountFor("Munich", 0))

	_, ok = dst.Delete("u1")
	assert.True(t, ok)
	assert.Equal(t, 2, dst.Len())
}

func TestSnapshot_ReplacesExistingContents(t *testing.T) {
	src := newUserDex(t)
	src.Put(user{ID: "u1", City: "Berlin", Age: 30})

	var buf bytes.Buffer
	require.NoError(t, src.SaveTo(&buf))

	dst := newUserDex(t)
	dst.Put(user{ID: "stale", City: "Nowhere", Age: 99})
	require.NoError(t, dst.LoadFrom(&buf))

	_, ok := dst.Get("stale")
	assert.False(t, ok)
	assert.Equal(t, 1, dst.Len())
	assert.Empty(t, dst.ElementsFor("Nowhere", 0))
}

func TestSnapshot_SelfDescribingCodec(t *testing.T) {
	src, err := New[string, user](userKey).
		Indexes(2).
		HashValues(userCodes).
		Codec(codec.JSON{}).
		Build()
	require.NoError(t, err)
	src.Put(user{ID: "u1", City: "Berlin", Age: 30})

	var buf bytes.Buffer
	require.NoError(t, src.SaveTo(&buf))

	// The destination uses the default codec; the stream header names
	// the codec to decode with.
	dst := newUserDex(t)
	require.NoError(t, dst.LoadFrom(&buf))

	got, ok := dst.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "Berlin", got.City)
}

func TestSnapshot_BadMagic(t *testing.T) {
	dst := newUserDex(t)
	err := dst.LoadFrom(bytes.NewReader([]byte("not a snapshot stream")))
	require.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestSnapshot_Truncated(t *testing.T) {
	src := newUserDex(t)
	src.Put(user{ID: "u1", City: "Berlin", Age: 30})

	var buf bytes.Buffer
	require.NoError(t, src.SaveTo(&buf))

	dst := newUserDex(t)
	dst.Put(user{ID: "keep", City: "Munich", Age: 1})

	err := dst.LoadFrom(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	require.ErrorIs(t, err, ErrInvalidSnapshot)

	// A failed load leaves the container unchanged.
	_, ok := dst.Get("keep")
	assert.True(t, ok)
	assert.Equal(t, 1, dst.Len())
}

func TestSnapshot_UnknownCodec(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(snapshotMagic[:])
	buf.WriteByte(snapshotVersion)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(4)))
	buf.WriteString("nope")

	dst := newUserDex(t)
	err := dst.LoadFrom(&buf)

	var unknown *UnknownCodecError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)
}

func TestSnapshot_UnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(snapshotMagic[:])
	buf.WriteByte(99)

	dst := newUserDex(t)
	err := dst.LoadFrom(&buf)
	require.ErrorIs(t, err, ErrInvalidSnapshot)
}
