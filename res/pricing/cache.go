package pricing

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// ConfigSource yields the raw JSON of the active rate table.
// shinypath-api/res/store's PricingConfigStore satisfies it.
type ConfigSource interface {
	GetActive(ctx context.Context) (json.RawMessage, error)
}

// Cache is a read-through snapshot of the active rate table. Every quote
// submission and live calculation reads through it; the snapshot refreshes
// after TTL expiry (polling) and on Invalidate (change notification), whichever
// comes first. A failed refresh keeps serving the previous snapshot, and when
// nothing usable was ever loaded the hardcoded default table is served, so
// pricing never blocks the forms.
type Cache struct {
	source ConfigSource
	ttl    time.Duration
	logger *log.Logger

	mu        sync.Mutex
	snapshot  *Config
	fetchedAt time.Time
}

func NewCache(source ConfigSource, ttl time.Duration, logger *log.Logger) *Cache {
	return &Cache{
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the current rate table. Never returns nil.
func (c *Cache) Get(ctx context.Context) *Config {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.snapshot
	}

	raw, err := c.source.GetActive(ctx)
	if err != nil {
		c.logger.Printf("Error fetching active pricing config, serving fallback: %s", err)
		return c.fallbackLocked()
	}

	cfg, err := ParseConfig(raw)
	if err != nil {
		c.logger.Printf("Stored pricing config unusable, serving fallback: %s", err)
		return c.fallbackLocked()
	}

	c.snapshot = cfg
	c.fetchedAt = time.Now()
	return c.snapshot
}

// Invalidate forces the next Get to refetch. Called after the admin saves a
// new rate table.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}

func (c *Cache) fallbackLocked() *Config {
	if c.snapshot != nil {
		return c.snapshot
	}
	return DefaultConfig()
}
