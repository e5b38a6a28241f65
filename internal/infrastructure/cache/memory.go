package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process key-value store with expiration. It backs the
// notification delivery guard when Redis is disabled; the guard then only
// holds within a single process lifetime.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]*memoryItem),
	}

	// Start cleanup goroutine to remove expired items
	go store.cleanupExpired()

	return store
}

func (mi *memoryItem) expired(now time.Time) bool {
	return !mi.expireTime.IsZero() && now.After(mi.expireTime)
}

// Set stores a key-value pair. Zero expiration means the key never expires.
func (ms *MemoryStore) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item := &memoryItem{value: value}
	if expiration > 0 {
		item.expireTime = time.Now().Add(expiration)
	}
	ms.items[key] = item
	return nil
}

// SetNX stores a key-value pair only when the key is absent or expired.
// Returns true when this call claimed the key.
func (ms *MemoryStore) SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if item, exists := ms.items[key]; exists && !item.expired(time.Now()) {
		return false, nil
	}

	item := &memoryItem{value: value}
	if expiration > 0 {
		item.expireTime = time.Now().Add(expiration)
	}
	ms.items[key] = item
	return true, nil
}

// Get retrieves a value by key. The second return is false when the key is
// missing or expired.
func (ms *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	if !exists {
		return "", false, nil
	}
	if item.expired(time.Now()) {
		return "", false, nil
	}

	return item.value, true, nil
}

// Delete removes a key
func (ms *MemoryStore) Delete(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
	return nil
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ms.mu.Lock()
		now := time.Now()
		for key, item := range ms.items {
			if item.expired(now) {
				delete(ms.items, key)
			}
		}
		ms.mu.Unlock()
	}
}
