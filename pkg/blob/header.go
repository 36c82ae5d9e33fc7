package blob

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

const (
	// HeaderVersion is the version byte at offset 0. The high bit is set
	// so a chunk can never pass for ASCII text.
	HeaderVersion byte = 128

	// wordSize is the width of the size field on this platform.
	wordSize = bits.UintSize / 8

	// HeaderSize is the size of a chunk header on this platform: 20 bytes
	// on 32-bit platforms, 24 on 64-bit ones.
	HeaderSize = 16 + wordSize
)

// Field offsets within a header.
const (
	offVersion   = 0
	offEOLUnix   = 1
	offEOLDos    = 2
	offSignature = 4
	offZero      = 8
	offExtra     = 10
	offType      = 12
	offSize      = 16
)

// checkBytesLen is the length of the canonical prefix every chunk written
// by this platform starts with: version, EOL sentinels, signature and the
// zero field. The extra field that follows is payload data, not a check.
const checkBytesLen = 10

var headerPrefix = func() [checkBytesLen]byte {
	p := [checkBytesLen]byte{HeaderVersion, '\n', '\r', '\n'}
	copy(p[offSignature:offZero], SignatureCurrent[:])
	return p
}()

// ChunkHeader is the decoded form of a chunk header.
type ChunkHeader struct {
	Version   byte
	EOLUnix   byte
	EOLDos    [2]byte
	Signature Signature
	Zero      uint16
	Extra     uint16
	Type      ChunkType
	Size      uint64
}

// Valid reports whether the header could have been written by this
// platform: correct version, intact EOL sentinels, the current signature
// and a zero check field.
func (h ChunkHeader) Valid() bool {
	return h.Version == HeaderVersion &&
		h.EOLUnix == '\n' &&
		h.EOLDos == [2]byte{'\r', '\n'} &&
		h.Signature == SignatureCurrent &&
		h.Zero == 0
}

// DecodeHeader decodes a chunk header from data, honouring the byte order
// and size-field width the signature claims. Unlike Deserialize it accepts
// headers written by other platforms, so foreign chunks can at least be
// described. The data must cover the full header for the claimed width.
func DecodeHeader(data []byte) (ChunkHeader, error) {
	if len(data) < offSize {
		return ChunkHeader{}, fmt.Errorf("%w: expected at least %d bytes but got %d", ErrTruncatedHeader, offSize, len(data))
	}
	h := ChunkHeader{
		Version:   data[offVersion],
		EOLUnix:   data[offEOLUnix],
		EOLDos:    [2]byte{data[offEOLDos], data[offEOLDos+1]},
		Signature: Signature(data[offSignature:offZero]),
		Type:      ChunkType(data[offType:offSize]),
	}
	order := h.Signature.ByteOrder()
	word := h.Signature.WordSize()
	if order == nil || word == 0 {
		return ChunkHeader{}, fmt.Errorf("%w: %v", ErrUnknownSignature, h.Signature)
	}
	if len(data) < offSize+word {
		return ChunkHeader{}, fmt.Errorf("%w: expected at least %d bytes but got %d", ErrTruncatedHeader, offSize+word, len(data))
	}
	h.Zero = order.Uint16(data[offZero:offExtra])
	h.Extra = order.Uint16(data[offExtra:offType])
	if word == 8 {
		h.Size = order.Uint64(data[offSize : offSize+8])
	} else {
		h.Size = uint64(order.Uint32(data[offSize : offSize+4]))
	}
	return h, nil
}

// encodeHeader stamps a current-platform header into dst, which must hold
// at least HeaderSize bytes.
func encodeHeader(dst []byte, typ ChunkType, extra uint16, size uint) {
	copy(dst[:checkBytesLen], headerPrefix[:])
	binary.NativeEndian.PutUint16(dst[offExtra:offType], extra)
	copy(dst[offType:offSize], typ[:])
	if wordSize == 8 {
		binary.NativeEndian.PutUint64(dst[offSize:offSize+8], uint64(size))
	} else {
		binary.NativeEndian.PutUint32(dst[offSize:offSize+4], uint32(size))
	}
}

// decodeSize reads the size field of a current-platform header.
func decodeSize(data []byte) uint {
	if wordSize == 8 {
		return uint(binary.NativeEndian.Uint64(data[offSize : offSize+8]))
	}
	return uint(binary.NativeEndian.Uint32(data[offSize : offSize+4]))
}
