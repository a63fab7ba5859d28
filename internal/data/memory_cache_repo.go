package data

import (
	"context"
	"sync"
	"time"
)

// MemoryCacheRepo implements the CacheRepository interface with an in-process
// map. Suitable for tests and single-node development; the dedup guarantee
// only holds within one process.
type MemoryCacheRepo struct {
	mu    sync.Mutex
	items map[string]memoryCacheItem
}

type memoryCacheItem struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryCacheRepo creates an empty MemoryCacheRepo.
func NewMemoryCacheRepo() *MemoryCacheRepo {
	return &MemoryCacheRepo{items: make(map[string]memoryCacheItem)}
}

func (m *MemoryCacheRepo) expired(it memoryCacheItem) bool {
	return !it.expiresAt.IsZero() && time.Now().After(it.expiresAt)
}

// Set stores a value with the given TTL. A TTL of 0 means no expiry.
func (m *MemoryCacheRepo) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := memoryCacheItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = it
	return nil
}

// Get retrieves a value, or nil if the key is absent or expired.
func (m *MemoryCacheRepo) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	if m.expired(it) {
		delete(m.items, key)
		return nil, nil
	}
	return append([]byte(nil), it.value...), nil
}

// Delete removes a key. Returns true if the key existed.
func (m *MemoryCacheRepo) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok {
		return false, nil
	}
	delete(m.items, key)
	return !m.expired(it), nil
}

// Exists checks if a key exists.
func (m *MemoryCacheRepo) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok {
		return false, nil
	}
	if m.expired(it) {
		delete(m.items, key)
		return false, nil
	}
	return true, nil
}

// SetIfNotExists atomically sets a key only if it doesn't already exist.
// Returns true if the key was set.
func (m *MemoryCacheRepo) SetIfNotExists(
	_ context.Context,
	key string,
	value []byte,
	ttl time.Duration,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if it, ok := m.items[key]; ok && !m.expired(it) {
		return false, nil
	}

	it := memoryCacheItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = it
	return true, nil
}

// Health always succeeds for the in-process cache.
func (m *MemoryCacheRepo) Health(_ context.Context) error {
	return nil
}
