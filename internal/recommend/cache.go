package recommend

import (
	"sync"
	"time"

	"github.com/bingeboard/bingeboard-server/internal/domain"
)

// cacheEntry holds one user's generated recommendation set.
type cacheEntry struct {
	recs      []domain.Recommendation
	expiresAt time.Time
}

// Cache is a keyed TTL cache for generated recommendation sets. Entries are
// evicted lazily on read and in bulk by Sweep. Deliberately in-memory only:
// recommendations are cheap to regenerate and must not outlive a restart.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration

	// now is injectable for tests.
	now func() time.Time
}

// NewCache creates a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached set for a key, evicting it first if expired.
// An entry is expired at its expiry instant, not one tick later.
func (c *Cache) Get(key string) ([]domain.Recommendation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.recs, true
}

// Set stores a recommendation set with a fresh TTL.
func (c *Cache) Set(key string, recs []domain.Recommendation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		recs:      recs,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops a key's cached set, if any.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Sweep removes all expired entries and returns how many were dropped.
// Callers run this periodically to bound memory for keys never read again.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached keys. Used by tests and sweep logging.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SetClock overrides the cache's time source. Tests only.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
