package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/buzkaaclicker/elsewhere"
)

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// Process-local cache backend with expiring keys.
type Cache struct {
	// Clock used for expiration, time.Now if nil.
	Now func() time.Time

	entries     map[string]cacheEntry
	generations map[string]int64
	mutex       sync.Mutex
}

var _ elsewhere.CacheBackend = (*Cache)(nil)

func NewCache() *Cache {
	return &Cache{
		entries:     make(map[string]cacheEntry),
		generations: make(map[string]int64),
	}
}

func (c *Cache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", elsewhere.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return "", elsewhere.ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores value regardless of the key generation.
func (c *Cache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.set(key, value, ttl)
	return nil
}

func (c *Cache) set(key string, value string, ttl time.Duration) {
	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = entry
}

func (c *Cache) Generation(ctx context.Context, key string) (int64, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.generations[key], nil
}

func (c *Cache) SetIfGeneration(ctx context.Context, key string, value string, ttl time.Duration, gen int64) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.generations[key] != gen {
		return false, nil
	}
	c.set(key, value, ttl)
	return true, nil
}

func (c *Cache) Invalidate(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
	c.generations[key]++
	return nil
}
