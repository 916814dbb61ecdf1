package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage persists values as a JSON object in a single file readable only
// by the owner. The CLI keeps its login here between invocations.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultSessionFile returns ~/.sakti/session.json.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sakti-session.json"
	}
	return filepath.Join(home, ".sakti", "session.json")
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		// an unreadable file is replaced rather than blocking a fresh login
		values = map[string]string{}
	}
	values[key] = value
	return s.save(values)
}

func (s *FileStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return s.clear()
	}
	delete(values, key)
	return s.save(values)
}

func (s *FileStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear()
}

func (s *FileStorage) clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (s *FileStorage) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("corrupt session file: %w", err)
	}
	return values, nil
}

func (s *FileStorage) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
