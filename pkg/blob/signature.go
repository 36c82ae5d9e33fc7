package blob

import (
	"encoding/binary"
	"math/bits"
)

// Signature is the fourCC at header offset 4 recording the byte order and
// size-field width of the platform that wrote a chunk. The position of the
// l/L picks the byte order, its case picks the width. A chunk is only
// loadable on a platform whose own signature matches; everything else can
// merely be described via DecodeHeader.
type Signature [4]byte

var (
	SignatureLittleEndian32 = Signature{'B', 'l', 'O', 'B'}
	SignatureLittleEndian64 = Signature{'B', 'L', 'O', 'B'}
	SignatureBigEndian32    = Signature{'B', 'O', 'l', 'B'}
	SignatureBigEndian64    = Signature{'B', 'O', 'L', 'B'}
)

// SignatureCurrent is the signature of the running platform, resolved once
// at package init from the native byte order and word width.
var SignatureCurrent = currentSignature()

// nativeLittle reports whether the platform is little-endian.
var nativeLittle = func() bool {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	return probe[0] == 1
}()

func currentSignature() Signature {
	if nativeLittle {
		if bits.UintSize == 64 {
			return SignatureLittleEndian64
		}
		return SignatureLittleEndian32
	}
	if bits.UintSize == 64 {
		return SignatureBigEndian64
	}
	return SignatureBigEndian32
}

// Known reports whether s is one of the four defined signatures.
func (s Signature) Known() bool {
	switch s {
	case SignatureLittleEndian32, SignatureLittleEndian64,
		SignatureBigEndian32, SignatureBigEndian64:
		return true
	}
	return false
}

// ByteOrder returns the byte order s declares, or nil for an unknown
// signature.
func (s Signature) ByteOrder() binary.ByteOrder {
	switch s {
	case SignatureLittleEndian32, SignatureLittleEndian64:
		return binary.LittleEndian
	case SignatureBigEndian32, SignatureBigEndian64:
		return binary.BigEndian
	}
	return nil
}

// WordSize returns the width in bytes of the size field s declares, or 0
// for an unknown signature.
func (s Signature) WordSize() int {
	switch s {
	case SignatureLittleEndian32, SignatureBigEndian32:
		return 4
	case SignatureLittleEndian64, SignatureBigEndian64:
		return 8
	}
	return 0
}

func (s Signature) String() string { return fourCC("Signature", s) }
