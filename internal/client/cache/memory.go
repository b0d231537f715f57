package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/sittersafe/carelog/internal/common"
)

// MemoryStore is an in-memory Store used by tests and as a throwaway cache
// when no local database path is configured. It applies the same quota
// semantics as the SQLite store.
type MemoryStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	quota int64

	// SetErr, when non-nil, is returned by every Set. Tests use it to
	// simulate persistence failures.
	SetErr error
}

// NewMemoryStore returns an empty store. quota <= 0 means unbounded.
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), quota: quota}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.quota > 0 {
		var used int64
		for k, v := range m.data {
			if k == key {
				continue
			}
			used += int64(len(v))
		}
		if used+int64(len(value)) > m.quota {
			return fmt.Errorf("snapshot[%s]: %w", key, common.ErrQuotaExceeded)
		}
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
