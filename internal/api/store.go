package api

import (
	"bytes"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/samcharles93/blobkit/pkg/blob"
)

type blobRecord struct {
	Summary BlobSummary
	File    *blob.File
}

// BlobStore holds validated blob containers by ID, in insertion order.
type BlobStore struct {
	mu    sync.Mutex
	blobs map[string]*blobRecord
	order []string
}

func NewBlobStore() *BlobStore {
	return &BlobStore{
		blobs: make(map[string]*blobRecord),
	}
}

// Add validates data as a blob container and stores it under a fresh ID.
// Invalid data is rejected with the codec's diagnostic.
func (s *BlobStore) Add(name string, data []byte) (BlobSummary, error) {
	f, err := blob.OpenReaderAt(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return BlobSummary{}, err
	}
	return s.insert(name, f), nil
}

// AddFile opens path as a blob container, memory-mapping it when possible,
// and stores it under a fresh ID. The name is the file's base name.
func (s *BlobStore) AddFile(path string) (BlobSummary, error) {
	f, err := blob.Open(path)
	if err != nil {
		return BlobSummary{}, err
	}
	return s.insert(filepath.Base(path), f), nil
}

func (s *BlobStore) insert(name string, f *blob.File) BlobSummary {
	id := newBlobID()
	summary := summarize(id, name, f)

	s.mu.Lock()
	s.blobs[id] = &blobRecord{Summary: summary, File: f}
	s.order = append(s.order, id)
	s.mu.Unlock()

	return summary
}

func (s *BlobStore) Get(id string) (*blobRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.blobs[id]
	return rec, ok
}

// Remove deletes the blob and releases its backing data.
func (s *BlobStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.blobs[id]
	if !ok {
		return false
	}
	delete(s.blobs, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	_ = rec.File.Close()
	return true
}

func (s *BlobStore) List() []BlobSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BlobSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.blobs[id].Summary)
	}
	return out
}

func (s *BlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// Close releases every stored blob.
func (s *BlobStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, rec := range s.blobs {
		if err := rec.File.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.blobs = make(map[string]*blobRecord)
	s.order = nil
	return firstErr
}

func summarize(id, name string, f *blob.File) BlobSummary {
	chunks := f.Chunks()
	infos := make([]ChunkInfo, 0, len(chunks))
	for i, ch := range chunks {
		infos = append(infos, ChunkInfo{
			Index:       i,
			Offset:      int64(f.Offset(i)),
			Type:        ch.Type().String(),
			Extra:       ch.Extra(),
			Size:        uint64(ch.Size()),
			PayloadSize: uint64(len(ch.Payload())),
		})
	}
	return BlobSummary{
		ID:     id,
		Object: "blob",
		Name:   name,
		Size:   int64(len(f.Data)),
		Flags:  f.Flags().String(),
		Chunks: infos,
	}
}

func newBlobID() string {
	return "blob_" + uuid.NewString()
}
