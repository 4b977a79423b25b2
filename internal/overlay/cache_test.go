package overlay

import (
	"testing"
	"time"

	"bikeflow/internal/traffic"
)

func newTestCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[traffic.Anchor]cacheEntry),
		ttl:     ttl,
	}
}

func TestCache_SetGet(t *testing.T) {
	c := newTestCache(time.Minute)
	c.Set(600, []Marker{{ShortName: "A"}})

	got, ok := c.Get(600)
	if !ok {
		t.Fatal("Get(600) should return true")
	}
	if len(got) != 1 || got[0].ShortName != "A" {
		t.Errorf("Get(600) = %+v", got)
	}
	if _, ok := c.Get(traffic.Unfiltered); ok {
		t.Error("Get(Unfiltered) should miss")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := newTestCache(50 * time.Millisecond)
	c.Set(600, nil)

	if _, ok := c.Get(600); !ok {
		t.Fatal("entry should be present immediately after Set")
	}
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get(600); ok {
		t.Error("entry should be expired after TTL")
	}
}

func TestCache_Cleanup(t *testing.T) {
	c := newTestCache(time.Millisecond)
	c.Set(1, nil)
	c.Set(2, nil)
	time.Sleep(5 * time.Millisecond)
	c.cleanup()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.entries) != 0 {
		t.Errorf("cleanup left %d entries, want 0", len(c.entries))
	}
}

func TestCache_Reset(t *testing.T) {
	c := newTestCache(time.Hour)
	c.Set(600, nil)
	c.Reset()
	if _, ok := c.Get(600); ok {
		t.Error("Get after Reset should miss")
	}
}

func TestCache_SweeperDropsExpiredAndStops(t *testing.T) {
	c := newCache(time.Millisecond, 2*time.Millisecond)
	c.Set(600, nil)

	deadline := time.Now().Add(time.Second)
	for {
		c.mu.RLock()
		n := len(c.entries)
		c.mu.RUnlock()
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("sweeper did not drop the expired entry")
		}
		time.Sleep(time.Millisecond)
	}

	c.Close()
	c.Close() // idempotent
	select {
	case <-c.done:
	default:
		t.Error("sweeper still running after Close")
	}
}

func TestController_CloseWithoutCache(t *testing.T) {
	NewController(0, discard).Close()
}
