// Package cache implements the resolver's answer cache: a fixed-capacity
// map from (owner, type, class) to a resource record, each entry expiring
// on its own schedule from the TTL it was inserted with.
package cache

import (
	"sync"
	"time"

	"dnsresolver/pkg/dns"
)

// Key identifies a cached answer the way a question identifies it: the
// owner name, query type, and query class together, not any one alone.
type Key struct {
	Owner string
	Type  dns.QType
	Class dns.QClass
}

type entry struct {
	record    dns.ResourceRecord
	expiresAt time.Time
}

// Cache is a bounded, TTL-expiring, concurrency-safe answer cache.
// Expiration is checked lazily at Get time: an expired entry can still
// occupy a slot until it's looked up or evicted to make room for a new
// one. All access is serialized by a single mutex with no I/O performed
// while it's held.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[Key]entry
	now      func() time.Time
}

// New returns an empty Cache that holds at most capacity entries.
func New(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		entries:  make(map[Key]entry, capacity),
		now:      time.Now,
	}
}

// Get returns the cached record for key, if one exists and has not
// expired. An expired entry is evicted on the way out and reported as a
// miss.
func (c *Cache) Get(key Key) (dns.ResourceRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return dns.ResourceRecord{}, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return dns.ResourceRecord{}, false
	}
	return e.record, true
}

// Set inserts record under key with the given TTL, evicting an existing
// entry to make room if the cache is at capacity. A zero or negative TTL
// is treated as "already expired" and is still stored, consistent with a
// record that answers the current lookup but must not be reused.
func (c *Cache) Set(key Key, record dns.ResourceRecord, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	c.entries[key] = entry{record: record, expiresAt: c.now().Add(ttl)}
}

// evictLocked removes one entry to free a slot, preferring an already
// expired entry over the one with the nearest remaining TTL. Must be
// called with mu held.
func (c *Cache) evictLocked() {
	now := c.now()
	var (
		oldestKey   Key
		oldestFound bool
		oldestAt    time.Time
	)
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			return
		}
		if !oldestFound || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt, oldestFound = k, e.expiresAt, true
		}
	}
	if oldestFound {
		delete(c.entries, oldestKey)
	}
}

// Len reports the current number of entries, including any not yet
// lazily expired.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
