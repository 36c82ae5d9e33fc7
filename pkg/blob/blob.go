// Package blob implements a self-describing binary chunk format.
//
// A blob is a sequence of chunks laid out back to back. Every chunk starts
// with a fixed-size header carrying a version marker, line-ending sentinels
// that catch text-mode transfer damage, an endianness and word-width
// signature, a fourCC type tag, sixteen bits of payload-specific extra data
// and the total chunk size. Chunks can be concatenated with plain cat and
// picked apart again without out-of-band metadata, straight from a
// memory-mapped file.
//
// Headers are 20 bytes on 32-bit platforms and 24 bytes on 64-bit ones,
// and header alignment equals the pointer width, so a payload stored right
// after its header keeps natural alignment. Deserialization reinterprets
// the caller's bytes in place and never copies them.
package blob

import (
	"fmt"
	"strings"
)

// ChunkType is the fourCC tag identifying what a chunk payload contains.
// The four bytes are stored in the header verbatim, in order, and tags are
// only ever compared for equality. Tags starting with an uppercase letter
// are reserved for the format; lowercase-initial tags are free for
// application use.
type ChunkType [4]byte

// ChunkTypeMesh identifies serialized mesh data.
var ChunkTypeMesh = ChunkType{'M', 's', 'h', 0}

func (t ChunkType) String() string { return fourCC("ChunkType", t) }

// fourCC renders a four-byte tag with printable bytes as characters and
// everything else as hex, eg ChunkType('M', 's', 'h', 0xab).
func fourCC(name string, tag [4]byte) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, c := range tag {
		if i > 0 {
			b.WriteString(", ")
		}
		if c >= 0x20 && c < 0x7f {
			b.WriteByte('\'')
			b.WriteByte(c)
			b.WriteByte('\'')
		} else {
			fmt.Fprintf(&b, "%#x", c)
		}
	}
	b.WriteByte(')')
	return b.String()
}
