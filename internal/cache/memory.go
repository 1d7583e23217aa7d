package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process, mutex-synchronized TTL cache. It is the
// default backend when no Redis URL is configured, grounded on the same
// entry/expiry bookkeeping as a registry schema cache: lazy expiry on read,
// no background sweep required for correctness.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	tenantID  string
	userID    string
}

// NewMemoryCache constructs an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key Key) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key.String()]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key.String())
		c.mu.Unlock()
		return nil, false, nil
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key Key, value []byte, ttl time.Duration) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	c.mu.Lock()
	c.entries[key.String()] = memoryEntry{
		value:     cp,
		expiresAt: time.Now().Add(ttl),
		tenantID:  key.TenantID,
		userID:    key.UserID,
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, key Key) error {
	c.mu.Lock()
	delete(c.entries, key.String())
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) InvalidateUser(_ context.Context, tenantID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.entries {
		if v.tenantID == tenantID && v.userID == userID {
			delete(c.entries, k)
		}
	}
	return nil
}
