package cache

import (
	"errors"
	"sync"
	"time"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

type item struct {
	value    interface{}
	expireAt time.Time
}

func (i *item) expired() bool {
	return time.Now().After(i.expireAt)
}

// MemoryCache is a small in-memory TTL cache used to reuse assembled
// dashboard views within a fetch generation.
type MemoryCache struct {
	mu      sync.RWMutex
	data    map[string]*item
	maxSize int
}

// Option configures MemoryCache.
type Option func(*MemoryCache)

// WithMaxSize bounds the number of cached entries.
func WithMaxSize(n int) Option {
	return func(mc *MemoryCache) {
		mc.maxSize = n
	}
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...Option) *MemoryCache {
	mc := &MemoryCache{
		data:    make(map[string]*item),
		maxSize: 128,
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

// Set stores a value with the given TTL.
func (mc *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.data) >= mc.maxSize {
		mc.evictExpired()
		if len(mc.data) >= mc.maxSize {
			// Cache is only a recompute shortcut; dropping everything is safe.
			mc.data = make(map[string]*item)
		}
	}

	if ttl <= 0 {
		ttl = time.Minute
	}
	mc.data[key] = &item{value: value, expireAt: time.Now().Add(ttl)}
}

// Get retrieves a value or ErrCacheMiss.
func (mc *MemoryCache) Get(key string) (interface{}, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	it, ok := mc.data[key]
	if !ok || it.expired() {
		if ok {
			delete(mc.data, key)
		}
		return nil, ErrCacheMiss
	}
	return it.value, nil
}

// Delete removes keys.
func (mc *MemoryCache) Delete(keys ...string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
	}
}

// Flush removes everything.
func (mc *MemoryCache) Flush() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.data = make(map[string]*item)
}

func (mc *MemoryCache) evictExpired() {
	for k, it := range mc.data {
		if it.expired() {
			delete(mc.data, k)
		}
	}
}
