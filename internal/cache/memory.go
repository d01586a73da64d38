package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value      string
	expiration time.Time
}

// Memory is an in-process Cache for tests and Redis-less deployments.
type Memory struct {
	mu    sync.RWMutex
	items map[string]item
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]item)}
}

func (m *Memory) Get(ctx context.Context, key string) (bool, string, error) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return false, "", nil
	}
	if !it.expiration.IsZero() && time.Now().After(it.expiration) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return false, "", nil
	}
	return true, it.value, nil
}

func (m *Memory) SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = item{value: value, expiration: exp}
	m.mu.Unlock()
	return nil
}

// Len reports the number of live entries (primarily for testing).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
