package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Service for tests and cache-less deployments.
// Expired entries are dropped lazily on access.
type Memory struct {
	mu sync.RWMutex
	m  map[string]entry
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]entry)}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		c.mu.Lock()
		// A Set may have refreshed the key between the two locks; only drop
		// the entry if it is still the expired one.
		if cur, ok := c.m[key]; ok && time.Now().After(cur.expires) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	c.m[key] = entry{value: value, expires: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Memory) DeleteByPattern(_ context.Context, pattern string) int {
	prefix, wildcard := strings.CutSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	deleted := 0
	for k := range c.m {
		if (wildcard && strings.HasPrefix(k, prefix)) || (!wildcard && k == pattern) {
			delete(c.m, k)
			deleted++
		}
	}
	return deleted
}

func (c *Memory) Close() error { return nil }
