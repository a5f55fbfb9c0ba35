package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// RecordKey is the fixed key an in-progress order is stored under.
const RecordKey = "in-progress"

const keyNamespace = "catering"

// ErrNotFound is returned by stores when no snapshot exists for a key.
var ErrNotFound = errors.New("snapshot not found")

// Store is a single-table key-value store for serialized snapshots.
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// KeyFor namespaces the fixed record key by client scope. An empty scope
// yields the bare record key.
func KeyFor(scope string) string {
	parts := []string{keyNamespace, RecordKey}
	if scope = strings.TrimSpace(scope); scope != "" {
		parts = append(parts, scope)
	}
	return strings.Join(parts, ":")
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// Open creates a Store for the configured backend. The redis backend needs a
// non-nil client; redisTTL expires idle snapshots there.
func Open(backend, path string, client RedisClient, redisTTL time.Duration) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendBadger:
		return OpenBadgerStore(path)
	case BackendFile:
		return NewFileStore(path)
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("redis snapshot backend requires a redis client")
		}
		return NewRedisStore(client, redisTTL), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend: %s", backend)
	}
}
