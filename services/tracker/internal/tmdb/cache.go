package tmdb

import (
	"sync"
	"time"
)

// Cache holds raw response bodies keyed by request path and query, without
// the api key. Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte)
}

type cacheItem struct {
	body      []byte
	expiresAt time.Time
}

// TTLCache is an in-memory Cache with per-entry expiry and a size cap.
type TTLCache struct {
	mu       sync.RWMutex
	items    map[string]cacheItem
	ttl      time.Duration
	maxItems int
	now      func() time.Time
}

// NewTTLCache keeps bodies for ttl (60s when zero) and at most maxItems
// entries (1000 when zero).
func NewTTLCache(ttl time.Duration, maxItems int) *TTLCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if maxItems <= 0 {
		maxItems = 1000
	}
	return &TTLCache{
		items:    make(map[string]cacheItem),
		ttl:      ttl,
		maxItems: maxItems,
		now:      time.Now,
	}
}

func (c *TTLCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(it.expiresAt) {
		c.mu.Lock()
		if cur, ok2 := c.items[key]; ok2 && c.now().After(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return it.body, true
}

func (c *TTLCache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictLocked()
	}
	c.items[key] = cacheItem{body: body, expiresAt: c.now().Add(c.ttl)}
}

// evictLocked drops expired entries, or the one closest to expiry when
// nothing has expired yet.
func (c *TTLCache) evictLocked() {
	now := c.now()
	var oldest string
	var oldestAt time.Time
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
			continue
		}
		if oldest == "" || it.expiresAt.Before(oldestAt) {
			oldest, oldestAt = k, it.expiresAt
		}
	}
	if len(c.items) >= c.maxItems && oldest != "" {
		delete(c.items, oldest)
	}
}

func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
