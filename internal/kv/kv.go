// Package kv provides the key-value persistence layer the offline client
// stores snapshot themselves into. Values are opaque JSON documents.
package kv

import (
	"errors"
	"sync"
)

// ErrNotFound indicates that no value is stored under the requested key.
var ErrNotFound = errors.New("key not found")

// Store persists named JSON snapshots.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes the value stored under key. Deleting a missing key is
	// not an error.
	Delete(key string) error
}

// Memory is an in-memory Store, used in tests and as a cache in front of
// durable stores.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy so callers cannot mutate the stored slice.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

var _ Store = (*Memory)(nil)
