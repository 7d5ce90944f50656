package memory

import (
	"context"
	"sync"
	"time"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	"github.com/leadpilot/auth-service/internal/domain/repository"
)

type cacheEntry struct {
	value     entity.CachedSession
	expiresAt time.Time
}

// SessionCache is a TTL map with a periodic sweep. Close stops the sweep
// goroutine; durable state is unaffected.
type SessionCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	stop    chan struct{}
	once    sync.Once
}

func NewSessionCache() *SessionCache {
	c := &SessionCache{
		entries: make(map[string]cacheEntry),
		stop:    make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

func (c *SessionCache) Get(_ context.Context, key string) (*entity.CachedSession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	out := e.value
	return &out, true
}

func (c *SessionCache) Set(_ context.Context, key string, entry *entity.CachedSession, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: *entry, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *SessionCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// Close stops the background sweep.
func (c *SessionCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *SessionCache) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *SessionCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

var _ repository.SessionCache = (*SessionCache)(nil)
