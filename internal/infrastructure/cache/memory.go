package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dropsync/catalog/internal/domain"
)

const defaultJanitorInterval = 10 * time.Minute

// entry holds the JSON encoding of a value, the same representation Redis keeps
type entry struct {
	payload   json.RawMessage
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is a thread-safe in-process CacheRepository with TTL support.
// Values are stored JSON-encoded so reads behave like the Redis-backed cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates a memory cache and starts its expiry janitor
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithInterval(defaultJanitorInterval)
}

// NewMemoryCacheWithInterval creates a memory cache whose janitor runs at the given interval
func NewMemoryCacheWithInterval(interval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.janitor(interval)
	return c
}

// Get returns the decoded value stored under key
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return nil, domain.ErrCacheMiss
	}

	var value interface{}
	if err := json.Unmarshal(e.payload, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores value under key. A zero ttl keeps the entry until it is deleted.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	e := entry{payload: payload}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes key
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Exists reports whether key holds a live entry
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	return ok && !e.expired(time.Now()), nil
}

// Size returns the number of stored entries, expired ones included until the janitor runs
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes every entry
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Close stops the janitor. The cache stays usable.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.evictExpired(now)
		}
	}
}

func (c *MemoryCache) evictExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}
