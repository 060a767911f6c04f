package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/milk9111/tilemap/config"
	"github.com/milk9111/tilemap/tilemap"
)

// Store is an opaque key/value store for serialized maps.
type Store interface {
	Save(ctx context.Context, key string, blob []byte) error
	// Load returns nil, nil when key has never been saved.
	Load(ctx context.Context, key string) ([]byte, error)
	Close() error
}

// Open builds the store described by cfg.
func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Kind {
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		return NewPostgresStore(ctx, cfg.DSN)
	case "file", "":
		return NewFileStore(cfg.Path)
	}
	return nil, fmt.Errorf("persistence: unknown store kind %q", cfg.Kind)
}

// LoadMap reads and decodes the map stored under key. A nil map with a nil
// error means nothing was stored yet and the caller should start a new map.
func LoadMap(ctx context.Context, s Store, key string) (*tilemap.TileMap, error) {
	blob, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}
	m, err := tilemap.Unmarshal(blob)
	if err != nil {
		return nil, fmt.Errorf("persistence: decode %s: %w", key, err)
	}
	return m, nil
}

// SaveMap encodes m and stores it under key.
func SaveMap(ctx context.Context, s Store, key string, m *tilemap.TileMap, compress bool) error {
	blob, err := encode(m, compress)
	if err != nil {
		return err
	}
	return s.Save(ctx, key, blob)
}

func encode(m *tilemap.TileMap, compress bool) ([]byte, error) {
	if compress {
		return tilemap.MarshalCompressed(m)
	}
	return tilemap.Marshal(m)
}

// MemoryStore keeps blobs in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), blob...)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), blob...), nil
}

func (s *MemoryStore) Close() error { return nil }
