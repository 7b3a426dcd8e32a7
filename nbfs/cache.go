package nbfs

import (
	"sync"
	"time"
)

// DefaultContentCacheMax is the default entry cap for the rendered content
// cache.
const DefaultContentCacheMax = 64

// contentKey identifies one rendered payload. Including the owning
// notebook's load time means a reloaded notebook naturally misses the old
// entries instead of serving stale bytes.
type contentKey struct {
	path     string
	loadedAt time.Time
}

type contentEntry struct {
	data       []byte
	lastAccess time.Time
}

// contentCache is a small size-bounded cache of rendered file contents so
// that fragment reads of large binary outputs don't re-render the payload
// on every request. Eviction is least-recently-accessed.
type contentCache struct {
	max int

	mu      sync.Mutex
	entries map[contentKey]*contentEntry
}

func newContentCache(max int) *contentCache {
	if max <= 0 {
		max = DefaultContentCacheMax
	}
	return &contentCache{
		max:     max,
		entries: make(map[contentKey]*contentEntry),
	}
}

func (c *contentCache) get(key contentKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry.lastAccess = time.Now()
	return entry.data, true
}

func (c *contentCache) put(key contentKey, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &contentEntry{data: data, lastAccess: time.Now()}
	for len(c.entries) > c.max {
		var oldest contentKey
		var oldestAccess time.Time
		first := true
		for k, e := range c.entries {
			if first || e.lastAccess.Before(oldestAccess) {
				oldest = k
				oldestAccess = e.lastAccess
				first = false
			}
		}
		delete(c.entries, oldest)
	}
}
