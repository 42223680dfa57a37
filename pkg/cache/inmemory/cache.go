// Package inmemory is the process-local cache driver used for local runs and tests.
package inmemory

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/tournamate/rosterd/pkg/cache/errs"
)

// Config holds expiry settings in seconds. Negative values disable expiry and
// cleanup. Records are only removed by explicit deletes, so a positive
// DefaultExpiration is rejected.
type Config struct {
	DefaultExpiration int32 `mapstructure:"defaultExpiration"`
	CleanupInterval   int32 `mapstructure:"cleanupInterval"`
}

// InMemoryCache wraps go-cache. The mutex serializes writers so a batch is
// never observed half applied by GetByPattern.
type InMemoryCache struct {
	mu     sync.RWMutex
	client *gocache.Cache
}

// NewCache creates an in-memory cache
func NewCache(config *Config) (*InMemoryCache, error) {
	if config == nil {
		config = &Config{DefaultExpiration: -1, CleanupInterval: -1}
	}
	if config.DefaultExpiration > 0 {
		return nil, fmt.Errorf("inmemory: defaultExpiration must not be positive, got %d", config.DefaultExpiration)
	}

	return &InMemoryCache{
		client: gocache.New(
			time.Duration(config.DefaultExpiration)*time.Second,
			time.Duration(config.CleanupInterval)*time.Second,
		),
	}, nil
}

func (c *InMemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.client.Set(key, value, expiration(ttl))
	return nil
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, found := c.client.Get(key)
	if !found {
		return "", errs.ErrKeyNotFound
	}
	return val, nil
}

func (c *InMemoryCache) GetByPattern(_ context.Context, keyPattern string) (map[string]interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values := make(map[string]interface{})
	for key, item := range c.client.Items() {
		matched, err := path.Match(keyPattern, key)
		if err != nil {
			return nil, fmt.Errorf("invalid key pattern %q: %w", keyPattern, err)
		}
		if matched {
			values[key] = item.Object
		}
	}
	return values, nil
}

// WriteBatch applies every update while holding the write lock
func (c *InMemoryCache) WriteBatch(_ context.Context, updates map[string]*string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range updates {
		if value == nil {
			c.client.Delete(key)
			continue
		}
		c.client.Set(key, *value, gocache.DefaultExpiration)
	}
	return nil
}

func (c *InMemoryCache) GenerateKey(_ context.Context, _ string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrKeyGeneration, err)
	}
	return id.String(), nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.client.Delete(key)
	return nil
}

// Disconnect drops every stored item
func (c *InMemoryCache) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.client.Flush()
	return nil
}

func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.DefaultExpiration
	}
	return ttl
}
