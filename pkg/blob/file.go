package blob

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// File is an open blob file: a validated sequence of chunks over one
// contiguous byte range, memory-mapped when possible.
type File struct {
	// Data is the raw file contents. Chunk views alias it directly and
	// must not be used after Close.
	Data []byte

	chunks  []Chunk
	offsets []int
	flags   DataFlags
	mmapped bool
}

// Open maps a blob file read-only and validates every chunk in it. If mmap
// is unavailable it falls back to reading the file into an owned buffer.
// The returned file must be closed to release any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := stat.Size()
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		// cannot index this file safely as []byte on this architecture.
		return nil, fmt.Errorf("file size %d out of range", size)
	}

	if size > 0 {
		// Prefer mmap where available for zero-copy chunk views.
		data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		if err == nil {
			bf, parseErr := parseFile(data, 0, true)
			if parseErr != nil {
				_ = unix.Munmap(data)
				return nil, parseErr
			}
			return bf, nil
		}
	}

	// Fallback path that does not require mmap support.
	return OpenReaderAt(f, size)
}

// OpenReaderAt loads and validates a blob from a random-access reader
// without mmap. The contents are copied into an owned buffer.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("blob size %d out of range", size)
	}
	data := make([]byte, int(size))
	if size > 0 {
		if _, err := io.ReadFull(io.NewSectionReader(r, 0, size), data); err != nil {
			return nil, err
		}
	}
	return parseFile(data, DataOwned|DataMutable, false)
}

func parseFile(data []byte, flags DataFlags, mmapped bool) (*File, error) {
	f := &File{Data: data, flags: flags, mmapped: mmapped}
	w := Walk(data)
	for w.Scan() {
		f.chunks = append(f.chunks, w.Chunk())
		f.offsets = append(f.offsets, w.Offset())
	}
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("chunk %d: %w", len(f.chunks), err)
	}
	return f, nil
}

// Close releases the mapping or buffer. Chunk views obtained from the file
// must not be used afterwards.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	var err error
	if f.Data != nil && f.mmapped {
		err = unix.Munmap(f.Data)
	}
	f.Data = nil
	f.chunks = nil
	f.offsets = nil
	f.flags = 0
	f.mmapped = false
	return err
}

// Chunks returns the file's chunks in order.
func (f *File) Chunks() []Chunk { return f.chunks }

// Chunk returns the first chunk with the given type tag.
func (f *File) Chunk(typ ChunkType) (Chunk, bool) {
	for _, c := range f.chunks {
		if c.Type() == typ {
			return c, true
		}
	}
	return Chunk{}, false
}

// Offset returns the byte offset of chunk i within the file.
func (f *File) Offset(i int) int { return f.offsets[i] }

// Flags describe the memory backing Data: an owned heap copy is
// DataOwned|DataMutable, a read-only mapping has no flags set.
func (f *File) Flags() DataFlags { return f.flags }

// Mapped reports whether Data is a live mmap view.
func (f *File) Mapped() bool { return f.mmapped }
