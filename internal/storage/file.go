package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all keys in one JSON object on disk
type FileStore struct {
	mu     sync.RWMutex
	values map[string]string
	file   string
	closed bool
}

// NewFileStore creates a new file store, loading the file if it exists
func NewFileStore(filePath string) (*FileStore, error) {
	s := &FileStore{
		values: make(map[string]string),
		file:   filePath,
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := s.load(); err != nil {
			return nil, fmt.Errorf("failed to load storage: %w", err)
		}
	}

	return s, nil
}

// Get returns the value stored under key
func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key and writes the file
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.values[key] = value
	return s.save()
}

// Delete removes key and writes the file
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	dir := filepath.Dir(s.file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// credentials live here
	return os.WriteFile(s.file, data, 0600)
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}

	return nil
}
