package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is a process-lifetime KeyValue. Values are stored encoded so
// callers never share mutable state through it.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get decodes the value under key into out.
func (s *MemoryStore) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key, replacing any previous value.
func (s *MemoryStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}
