package store

import (
	"context"
	"sync"
)

// MemoryBucket is an in-memory Bucket implementation used in tests and as a
// throwaway backend when no database path is configured.
type MemoryBucket struct {
	mu   sync.RWMutex
	data map[string][]byte

	// ReadErr and WriteErr, when set, force the corresponding operation on
	// the named key to fail. Used to exercise degraded-mode behavior.
	ReadErr  map[string]error
	WriteErr map[string]error
}

func NewMemoryBucket() *MemoryBucket {
	return &MemoryBucket{data: make(map[string][]byte)}
}

func (m *MemoryBucket) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.ReadErr[key]; ok {
		return nil, err
	}
	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (m *MemoryBucket) Write(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.WriteErr[key]; ok {
		return err
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemoryBucket) Close() error {
	return nil
}
