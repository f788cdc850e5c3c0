package out

import (
	"context"
	"slices"
	"sync"

	trackerout "tempo/internal/modules/tracker/port/out"
)

// MemoryBlobStore is a process-local BlobStore for tests and throwaway runs.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: map[string][]byte{}}
}

var _ trackerout.BlobStore = (*MemoryBlobStore)(nil)

func (s *MemoryBlobStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	return slices.Clone(blob), ok, nil
}

func (s *MemoryBlobStore) Save(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = slices.Clone(blob)
	return nil
}

func (s *MemoryBlobStore) RemoveMany(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.blobs, key)
	}
	return nil
}
