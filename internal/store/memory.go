package store

import (
	"context"
	"sync"
)

// memoryKV keeps values in process memory only. It backs a LocalStore
// created without durable storage: sample data is served and mutations
// last until the process exits.
type memoryKV struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string][]byte)}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Update(_ context.Context, key string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.values[key]
	next, err := fn(cur, ok)
	if err != nil {
		return err
	}
	if next != nil {
		m.values[key] = next
	}
	return nil
}

func (m *memoryKV) Close() error { return nil }
