package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// MemoryStore keeps collections in a map. Used by tests and as the default
// backend when no database path is configured.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// NewMemoryStoreFromFiles seeds a memory store from <base>/<key>.json for
// every known collection key. Missing or unreadable files are skipped.
func NewMemoryStoreFromFiles(base string) *MemoryStore {
	s := NewMemoryStore()
	for _, key := range Keys {
		payload, err := os.ReadFile(filepath.Join(base, key+".json"))
		if err != nil {
			continue
		}
		s.data[key] = payload
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := append([]byte(nil), payload...)
	return out, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
