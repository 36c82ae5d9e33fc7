package blob

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Chunk is a view over one serialized chunk, or a live chunk that carries
// only a type tag until its header is stamped with SerializeHeaderInto.
//
// Deserialized chunks alias the caller's bytes; nothing is copied. A chunk
// view stays valid only as long as the backing memory does.
type Chunk struct {
	typ  ChunkType
	data []byte
}

// NewChunk returns a live chunk with the given type tag. Live chunks have
// no serialized bytes: Bytes and Payload return nil and IsChunkHeader
// reports false until the header has been written out.
func NewChunk(typ ChunkType) Chunk {
	return Chunk{typ: typ}
}

// IsChunk reports whether data starts with a complete chunk written by this
// platform. It is the tolerant twin of Deserialize: true exactly when
// Deserialize succeeds.
func IsChunk(data []byte) bool {
	if len(data) < HeaderSize {
		return false
	}
	if !bytes.Equal(data[:checkBytesLen], headerPrefix[:]) {
		return false
	}
	size := decodeSize(data)
	return size >= HeaderSize && size <= uint(len(data))
}

// Deserialize validates the chunk at the start of data and returns a view
// of it. The view covers exactly the declared chunk size; data may extend
// past it. Validation stops at the first failure:
//
//  1. the range must hold a full header
//  2. the version byte must match HeaderVersion
//  3. the signature must match the current platform
//  4. the remaining check bytes must be intact
//  5. the declared size must lie between HeaderSize and len(data)
func Deserialize(data []byte) (Chunk, error) {
	if len(data) < HeaderSize {
		return Chunk{}, fmt.Errorf("%w: expected at least %d bytes for a header but got %d", ErrTruncatedHeader, HeaderSize, len(data))
	}
	if data[offVersion] != HeaderVersion {
		return Chunk{}, fmt.Errorf("%w: expected version %d but got %d", ErrVersionMismatch, HeaderVersion, data[offVersion])
	}
	if sig := Signature(data[offSignature:offZero]); sig != SignatureCurrent {
		return Chunk{}, fmt.Errorf("%w: expected %v but got %v", ErrSignatureMismatch, SignatureCurrent, sig)
	}
	if !bytes.Equal(data[:checkBytesLen], headerPrefix[:]) {
		return Chunk{}, ErrCheckBytes
	}
	size := decodeSize(data)
	if size < HeaderSize {
		return Chunk{}, fmt.Errorf("%w: declared size %d is smaller than the header", ErrTruncatedChunk, size)
	}
	if size > uint(len(data)) {
		return Chunk{}, fmt.Errorf("%w: expected at least %d bytes but got %d", ErrTruncatedChunk, size, len(data))
	}
	return Chunk{
		typ:  ChunkType(data[offType:offSize]),
		data: data[:size:size],
	}, nil
}

// MustDeserialize is Deserialize for callers that have already checked
// IsChunk. It panics with the validation diagnostic on invalid input.
func MustDeserialize(data []byte) Chunk {
	c, err := Deserialize(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Type returns the chunk's type tag.
func (c Chunk) Type() ChunkType { return c.typ }

// Extra returns the sixteen payload-specific bits stored in the header, or
// 0 for a live chunk.
func (c Chunk) Extra() uint16 {
	if len(c.data) < HeaderSize {
		return 0
	}
	return binary.NativeEndian.Uint16(c.data[offExtra:offType])
}

// Size returns the declared chunk size including the header, or 0 for a
// live chunk.
func (c Chunk) Size() int { return len(c.data) }

// Bytes returns the serialized chunk, header included, or nil for a live
// chunk. The slice aliases the deserialized input.
func (c Chunk) Bytes() []byte { return c.data }

// Payload returns the chunk bytes after the header, or nil for a live
// chunk.
func (c Chunk) Payload() []byte {
	if len(c.data) < HeaderSize {
		return nil
	}
	return c.data[HeaderSize:]
}

// Header returns the decoded header. For a live chunk only the type tag is
// populated.
func (c Chunk) Header() ChunkHeader {
	if len(c.data) < HeaderSize {
		return ChunkHeader{Type: c.typ}
	}
	h, _ := DecodeHeader(c.data) // validated at construction
	return h
}

// IsChunkHeader reports whether the chunk's serialized header bytes are
// valid for this platform. Live chunks report false until their header is
// written with SerializeHeaderInto.
func (c Chunk) IsChunkHeader() bool {
	return len(c.data) >= checkBytesLen && bytes.Equal(c.data[:checkBytesLen], headerPrefix[:])
}

// SerializedSize returns the number of bytes SerializeHeaderInto writes.
func (c Chunk) SerializedSize() int { return HeaderSize }

// SerializeHeaderInto stamps the chunk's header at the start of dst and
// returns the number of header bytes written. The destination must already
// have its final size: the whole of len(dst) is recorded as the chunk size
// and everything past the header is left untouched as the payload region.
// The extra value is stored verbatim for the payload's own use.
func (c Chunk) SerializeHeaderInto(dst []byte, extra uint16) (int, error) {
	if len(dst) < HeaderSize {
		return 0, fmt.Errorf("%w: expected at least %d bytes but got %d", ErrDataTooSmall, HeaderSize, len(dst))
	}
	encodeHeader(dst, c.typ, extra, uint(len(dst)))
	return HeaderSize, nil
}
