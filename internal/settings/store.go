// Package settings persists user preferences as string key-value pairs.
package settings

import (
	"maps"
	"sync"
)

// Store is a flat string key-value store.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	All() (map[string]string, error)
	Close() error
}

// MemoryStore keeps settings in memory. The CLI falls back to it when the
// settings database cannot be opened.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value stored for key.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// All returns a copy of every stored pair.
func (m *MemoryStore) All() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values), nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
