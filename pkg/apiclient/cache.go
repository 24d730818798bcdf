package apiclient

import (
	"sync"
	"time"
)

// responseCache is a short-TTL cache for successful read responses.
// Raw bytes are stored so every hit decodes into the caller's own
// destination value. Expired entries are dropped lazily on read and
// swept periodically.
type responseCache struct {
	mu    sync.RWMutex
	items map[string]cacheEntry
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	raw       []byte
	expiresAt time.Time
}

func newResponseCache() *responseCache {
	c := &responseCache{
		items: make(map[string]cacheEntry),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go c.sweep()
	return c
}

// get returns the cached raw response if present and unexpired.
// An entry is never served past its expiry.
func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent set may have
		// refreshed the entry.
		if cur, ok := c.items[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.raw, true
}

func (c *responseCache) set(key string, raw []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.items[key] = cacheEntry{raw: raw, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *responseCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, entry := range c.items {
				if now.After(entry.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

func (c *responseCache) close() {
	c.once.Do(func() {
		close(c.stop)
		<-c.done
	})
}
