package repository

import (
	"context"
	"sync"
)

// KVMemory is a durable-scope stand-in used when no database is configured.
type KVMemory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewKVMemory() *KVMemory {
	return &KVMemory{values: make(map[string]string)}
}

func (m *KVMemory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *KVMemory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *KVMemory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
