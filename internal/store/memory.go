package store

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store used in tests and as a fallback when no
// database is available.
type MemStore struct {
	mu      sync.Mutex
	records map[string][]byte

	// SaveCount tracks writes per key, handy for debounce assertions.
	SaveCount map[string]int
}

func NewMemStore() *MemStore {
	return &MemStore{
		records:   make(map[string][]byte),
		SaveCount: make(map[string]int),
	}
}

func (m *MemStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemStore) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.records[key] = stored
	m.SaveCount[key]++
	return nil
}

func (m *MemStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)
	return nil
}
