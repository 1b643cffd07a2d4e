// Package cache provides a small TTL-based key/value cache used to avoid
// re-reading the same spreadsheet table multiple times within one command
// invocation. It is not safe for concurrent use; each invocation owns its
// own instance and runs single-threaded.
package cache

import "time"

// DefaultTTL is used when a cache is constructed with a non-positive TTL.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value      interface{}
	insertedAt time.Time
}

// Cache is an in-memory store whose entries expire after a fixed TTL.
// Entries are never evicted except by expiry or an explicit Clear; the cache
// only lives for the duration of one invocation, so unbounded growth is
// acceptable.
type Cache struct {
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// New creates a cache with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewWithClock creates a cache that reads the current time from now.
// Used by tests to control expiry without sleeping.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := New(ttl)
	c.now = now
	return c
}

// Get returns the value for key if it exists and has not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, resetting its insertion time.
func (c *Cache) Set(key string, value interface{}) {
	c.entries[key] = entry{value: value, insertedAt: c.now()}
}

// Clear removes the given keys, or every entry when called with no keys.
func (c *Cache) Clear(keys ...string) {
	if len(keys) == 0 {
		c.entries = make(map[string]entry)
		return
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
}
