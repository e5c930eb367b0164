package keydex

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/keydex/codec"
	"github.com/hupe1980/keydex/inverted"
	"github.com/hupe1980/keydex/model"
	"github.com/hupe1980/keydex/store"
)

// Snapshot stream layout:
//
//	[Magic: 4 bytes "KDXS"] [Version: 1 byte] [CodecNameLen: 2 bytes] [CodecName]
//	zstd-compressed body: [Count: 8 bytes] then per entry
//	[BlobLen: 4 bytes] [Blob: codec-encoded key + element]
//
// Only primary entries are serialized. Secondary indexes are a derived
// projection and are rebuilt from the configuration on load.
var snapshotMagic = [4]byte{'K', 'D', 'X', 'S'}

const (
	snapshotVersion byte = 1

	// maxSnapshotBlob bounds a single entry so a damaged length prefix
	// cannot trigger an arbitrary allocation.
	maxSnapshotBlob = 1 << 30
)

type snapshotEntry[K comparable, E any] struct {
	Key     K `json:"key"`
	Element E `json:"element"`
}

// SaveTo writes a snapshot of the container to w. The stream is
// self-describing: it records the codec name, so it can be loaded by a
// container built with any codec.
//
// The caller owns w; the container never touches a file or any other
// durable medium itself.
func (c *Container[K, E]) SaveTo(w io.Writer) error {
	n, err := c.saveTo(w)
	c.logger.LogSnapshotSave(n, err)
	return err
}

func (c *Container[K, E]) saveTo(w io.Writer) (int, error) {
	if _, err := w.Write(snapshotMagic[:]); err != nil {
		return 0, err
	}
	if _, err := w.Write([]byte{snapshotVersion}); err != nil {
		return 0, err
	}
	name := []byte(c.codec.Name())
	if err := binary.Write(w, binary.LittleEndian, uint16(len(name))); err != nil {
		return 0, err
	}
	if _, err := w.Write(name); err != nil {
		return 0, err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return 0, err
	}

	count := c.primary.Len()
	if err := binary.Write(enc, binary.LittleEndian, uint64(count)); err != nil {
		_ = enc.Close()
		return 0, err
	}

	for key, ent := range c.primary.All() {
		blob, err := c.codec.Marshal(snapshotEntry[K, E]{Key: key, Element: ent.elem})
		if err != nil {
			_ = enc.Close()
			return 0, fmt.Errorf("snapshot: encode entry: %w", err)
		}
		if err := binary.Write(enc, binary.LittleEndian, uint32(len(blob))); err != nil {
			_ = enc.Close()
			return 0, err
		}
		if _, err := enc.Write(blob); err != nil {
			_ = enc.Close()
			return 0, err
		}
	}

	return count, enc.Close()
}

// LoadFrom replaces the container's contents with the snapshot read
// from r. Secondary indexes are rebuilt through the configured hash
// values function; the stream only carries primary entries.
//
// On error the container is left unchanged: the decoded state is staged
// completely before it is adopted.
func (c *Container[K, E]) LoadFrom(r io.Reader) error {
	n, err := c.loadFrom(r)
	c.logger.LogSnapshotLoad(n, err)
	return err
}

func (c *Container[K, E]) loadFrom(r io.Reader) (int, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if magic != snapshotMagic {
		return 0, fmt.Errorf("%w: bad magic", ErrInvalidSnapshot)
	}

	var version [1]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if version[0] != snapshotVersion {
		return 0, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, version[0])
	}

	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	dec, ok := codec.ByName(string(name))
	if !ok {
		return 0, &UnknownCodecError{Name: string(name)}
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	defer zr.Close()

	var count uint64
	if err := binary.Read(zr, binary.LittleEndian, &count); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	staged := c.empty()
	for i := uint64(0); i < count; i++ {
		var blobLen uint32
		if err := binary.Read(zr, binary.LittleEndian, &blobLen); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		if blobLen > maxSnapshotBlob {
			return 0, fmt.Errorf("%w: entry of %d bytes exceeds limit", ErrInvalidSnapshot, blobLen)
		}
		blob := make([]byte, blobLen)
		if _, err := io.ReadFull(zr, blob); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}

		var se snapshotEntry[K, E]
		if err := dec.Unmarshal(blob, &se); err != nil {
			return 0, fmt.Errorf("%w: decode entry: %w", ErrInvalidSnapshot, err)
		}
		if derived := c.keyOf(se.Element); derived != se.Key {
			return 0, fmt.Errorf("%w: stored key %v does not match derived key %v", ErrInvalidSnapshot, se.Key, derived)
		}
		staged.install(se.Key, se.Element, staged.hashCodes(se.Element))
	}

	c.primary = staged.primary
	c.indexes = staged.indexes
	c.byID = staged.byID
	c.nextID = staged.nextID
	return int(count), nil
}

// empty returns a fresh container sharing this container's
// configuration, used to stage a snapshot load.
func (c *Container[K, E]) empty() *Container[K, E] {
	indexes := make([]*inverted.Index, c.numIndexes)
	for i := range indexes {
		indexes[i] = inverted.New()
	}
	return &Container[K, E]{
		keyOf:      c.keyOf,
		hashesOf:   c.hashesOf,
		numIndexes: c.numIndexes,
		primary:    store.NewMap[K, entry[E]](),
		indexes:    indexes,
		byID:       make(map[model.LocalID]K),
		hasher:     c.hasher,
		codec:      c.codec,
		logger:     c.logger,
		metrics:    c.metrics,
	}
}
