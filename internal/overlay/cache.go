package overlay

import (
	"sync"
	"time"

	"bikeflow/internal/traffic"
)

// sweepInterval is how often expired marker sets are dropped.
const sweepInterval = 5 * time.Minute

// Cache is an in-memory TTL cache of marker sets keyed by anchor. A sweeper
// goroutine runs until Close.
type Cache struct {
	mu      sync.RWMutex
	entries map[traffic.Anchor]cacheEntry
	ttl     time.Duration

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type cacheEntry struct {
	value     []Marker
	expiresAt time.Time
}

// NewCache creates a cache with the given TTL. Call Close to stop its sweeper.
func NewCache(ttl time.Duration) *Cache {
	return newCache(ttl, sweepInterval)
}

func newCache(ttl, sweepEvery time.Duration) *Cache {
	c := &Cache{
		entries: make(map[traffic.Anchor]cacheEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.sweep(sweepEvery)
	return c
}

func (c *Cache) sweep(every time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// Close stops the sweeper and waits for it to exit. It is safe to call
// more than once.
func (c *Cache) Close() {
	if c.stop == nil {
		return
	}
	c.closeOnce.Do(func() { close(c.stop) })
	<-c.done
}

// Get retrieves a cached marker set if it exists and hasn't expired.
func (c *Cache) Get(anchor traffic.Anchor) ([]Marker, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[anchor]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

// Set stores a marker set in the cache.
func (c *Cache) Set(anchor traffic.Anchor, markers []Marker) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[anchor] = cacheEntry{
		value:     markers,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[traffic.Anchor]cacheEntry)
}

func (c *Cache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, v := range c.entries {
		if now.After(v.expiresAt) {
			delete(c.entries, k)
		}
	}
}
