package blob

import "fmt"

// Walker steps through chunks laid out back to back in a byte range, the
// way blob files store them. It follows the bufio.Scanner shape:
//
//	w := blob.Walk(data)
//	for w.Scan() {
//		use(w.Chunk())
//	}
//	if err := w.Err(); err != nil {
//		...
//	}
//
// A false Scan with a nil Err means the range ended exactly on a chunk
// boundary. A non-nil Err pinpoints the offset where the bytes stopped
// being a valid chunk.
type Walker struct {
	data   []byte
	off    int
	cur    Chunk
	curOff int
	err    error
}

// Walk returns a Walker over the chunks in data.
func Walk(data []byte) *Walker {
	return &Walker{data: data}
}

// Scan advances to the next chunk. It returns false when the range is
// exhausted or the next bytes fail validation.
func (w *Walker) Scan() bool {
	if w.err != nil || w.off >= len(w.data) {
		return false
	}
	c, err := Deserialize(w.data[w.off:])
	if err != nil {
		w.err = fmt.Errorf("chunk at offset %d: %w", w.off, err)
		return false
	}
	w.cur = c
	w.curOff = w.off
	w.off += c.Size()
	return true
}

// Chunk returns the chunk found by the last successful Scan.
func (w *Walker) Chunk() Chunk { return w.cur }

// Offset returns the byte offset of that chunk within the walked range.
func (w *Walker) Offset() int { return w.curOff }

// Err returns the first validation failure, or nil if the walk ended
// cleanly at the end of the range.
func (w *Walker) Err() error { return w.err }
