package blob

import (
	"errors"
	"io"
)

// Writer appends chunks to a stream. Chunk sizes are known up-front, so
// every chunk is stamped and written in one pass and any io.Writer works.
//
// Align pads payloads with trailing zeros until the total chunk size is a
// multiple of Align, which keeps every successor header naturally aligned.
// The padding is part of the declared chunk size; chunks always follow
// each other back to back.
type Writer struct {
	// Align is the chunk size granularity in bytes. Values below 2
	// disable padding.
	Align int

	w io.Writer
	n int64
}

// NewWriter returns a Writer targeting w that aligns chunk sizes to the
// platform word size.
func NewWriter(w io.Writer) *Writer {
	return &Writer{Align: wordSize, w: w}
}

// WriteChunk stamps a header for typ and writes it, the payload and any
// alignment padding as one chunk. It returns the total chunk size written.
func (w *Writer) WriteChunk(typ ChunkType, extra uint16, payload []byte) (int, error) {
	size := HeaderSize + len(payload)
	if w.Align > 1 {
		if rem := size % w.Align; rem != 0 {
			size += w.Align - rem
		}
	}

	var hdr [HeaderSize]byte
	encodeHeader(hdr[:], typ, extra, uint(size))
	if err := w.write(hdr[:]); err != nil {
		return 0, err
	}
	if err := w.write(payload); err != nil {
		return 0, err
	}
	if pad := size - HeaderSize - len(payload); pad > 0 {
		if err := w.write(make([]byte, pad)); err != nil {
			return 0, err
		}
	}
	return size, nil
}

// Append copies an already-serialized chunk through verbatim.
func (w *Writer) Append(c Chunk) error {
	if len(c.Bytes()) == 0 {
		return errors.New("append of a live chunk")
	}
	return w.write(c.Bytes())
}

// TotalBytes returns the number of bytes written so far.
func (w *Writer) TotalBytes() int64 { return w.n }

func (w *Writer) write(p []byte) error {
	for len(p) > 0 {
		n, err := w.w.Write(p)
		w.n += int64(n)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
