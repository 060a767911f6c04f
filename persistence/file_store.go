package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every key in one JSON document on disk. Blobs are base64
// encoded by encoding/json. Each Save rewrites the file atomically.
type FileStore struct {
	path  string
	mutex sync.RWMutex
	data  map[string][]byte
}

// NewFileStore opens path, creating an empty store if it does not exist.
func NewFileStore(path string) (*FileStore, error) {
	store := &FileStore{path: path, data: make(map[string][]byte)}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := store.flush(); err != nil {
			return nil, fmt.Errorf("persistence: create %s: %w", path, err)
		}
	case err != nil:
		return nil, fmt.Errorf("persistence: read %s: %w", path, err)
	case len(raw) > 0:
		if err := json.Unmarshal(raw, &store.data); err != nil {
			return nil, fmt.Errorf("persistence: parse %s: %w", path, err)
		}
	}
	return store, nil
}

// flush writes the whole document. Callers hold the write lock or own store.
func (s *FileStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Save(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	prev, had := s.data[key]
	s.data[key] = append([]byte(nil), blob...)
	if err := s.flush(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return fmt.Errorf("persistence: save %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	blob, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), blob...), nil
}

// Keys lists the stored keys.
func (s *FileStore) Keys() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

func (s *FileStore) Close() error { return nil }
