// Package session owns the client side session: an access token plus the
// JSON encoded user record, kept in a small key-value storage.
package session

import (
	"sync"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Storage is a flat string key-value store. Implementations decide where the
// values live (memory, a local file, a browser cookie).
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}
