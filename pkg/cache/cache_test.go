package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New(5 * time.Minute)

	c.Set("assignments", []string{"A-0001"})

	value, ok := c.Get("assignments")
	assert.True(t, ok)
	assert.Equal(t, []string{"A-0001"}, value)
}

func TestCache_MissingKey(t *testing.T) {
	c := New(5 * time.Minute)

	_, ok := c.Get("requests")
	assert.False(t, ok)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	c := NewWithClock(5*time.Minute, func() time.Time { return now })

	c.Set("assignments", "rows")

	// Just inside the TTL
	now = now.Add(5*time.Minute - time.Second)
	_, ok := c.Get("assignments")
	assert.True(t, ok)

	// At the TTL boundary the entry is treated as absent
	now = now.Add(time.Second)
	_, ok = c.Get("assignments")
	assert.False(t, ok)
}

func TestCache_ClearSingleKey(t *testing.T) {
	c := New(5 * time.Minute)
	c.Set("requests", 1)
	c.Set("assignments", 2)

	c.Clear("requests")

	_, ok := c.Get("requests")
	assert.False(t, ok)
	_, ok = c.Get("assignments")
	assert.True(t, ok)
}

func TestCache_ClearAll(t *testing.T) {
	c := New(5 * time.Minute)
	c.Set("requests", 1)
	c.Set("assignments", 2)

	c.Clear()

	_, ok := c.Get("requests")
	assert.False(t, ok)
	_, ok = c.Get("assignments")
	assert.False(t, ok)
}

func TestCache_DefaultTTLFallback(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultTTL, c.ttl)
}
