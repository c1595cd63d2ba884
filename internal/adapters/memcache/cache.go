// Package memcache is the in-process Cache used when no redis is configured.
// State is lost on restart and not shared between replicas.
package memcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"nutricheck/internal/adapters/observability"
)

type entry struct {
	val     []byte
	expires time.Time // zero means no expiry
}

type Cache struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

func New() *Cache { return NewWithClock(time.Now) }

func NewWithClock(now func() time.Time) *Cache {
	return &Cache{m: map[string]entry{}, now: now}
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.m[key]
	if ok && !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.m, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, json.Unmarshal(e.val, dst)
}

// Set stores a JSON copy of v, so later changes to v are not visible.
func (c *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	e := entry{val: b}
	if ttlSec > 0 {
		e.expires = c.now().Add(time.Duration(ttlSec) * time.Second)
	}
	c.mu.Lock()
	c.m[key] = e
	c.mu.Unlock()
	observability.ObserveCache("memory", "set")
	return nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	observability.ObserveCache("memory", "del")
	return nil
}
