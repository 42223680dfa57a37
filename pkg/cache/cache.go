package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tournamate/rosterd/pkg/cache/errs"
	"github.com/tournamate/rosterd/pkg/cache/inmemory"
	"github.com/tournamate/rosterd/pkg/cache/redis"
	"github.com/tournamate/rosterd/pkg/cache/sqlkv"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQL    = "sql"
)

var (
	ErrKeyNotFound   = errs.ErrKeyNotFound
	ErrKeyGeneration = errs.ErrKeyGeneration
)

// Cache is the key-value contract every storage driver satisfies.
// Keys are colon separated paths ("team:<id>", "roster:<teamID>:<playerID>").
type Cache interface {
	// Get returns the value stored at key or ErrKeyNotFound
	Get(ctx context.Context, key string) (interface{}, error)

	// Set stores value at key. A zero ttl keeps the driver default.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GetByPattern returns every key matching the glob pattern with its value
	GetByPattern(ctx context.Context, keyPattern string) (map[string]interface{}, error)

	// WriteBatch applies all updates or none of them.
	// A nil value deletes the key.
	WriteBatch(ctx context.Context, updates map[string]*string) error

	// GenerateKey mints a key that is unique under parent for the lifetime of the store
	GenerateKey(ctx context.Context, parent string) (string, error)

	Disconnect() error
}

// Config selects and configures a driver
type Config struct {
	Driver   string           `mapstructure:"driver"`
	InMemory *inmemory.Config `mapstructure:"inmemory"`
	Redis    *redis.Config    `mapstructure:"redis"`
	SQL      *sqlkv.Config    `mapstructure:"sql"`
}

// New builds the driver named by config.Driver
func New(config *Config) (Cache, error) {
	if config == nil {
		return nil, fmt.Errorf("cache config is required")
	}

	switch config.Driver {
	case DriverMemory, "":
		return inmemory.NewCache(config.InMemory)
	case DriverRedis:
		rc, err := redis.NewCache(config.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case DriverSQL:
		sc, err := sqlkv.NewCache(config.SQL)
		if err != nil {
			return nil, err
		}
		return sc, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", config.Driver)
	}
}

// Registry holds the single process-wide storage handle.
// The first Open builds the driver; later calls return the same instance
// whatever config they pass.
type Registry struct {
	mu       sync.Mutex
	instance Cache
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Open returns the existing handle or initializes it from config
func (r *Registry) Open(config *Config) (Cache, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.instance != nil {
		return r.instance, nil
	}

	c, err := New(config)
	if err != nil {
		return nil, err
	}
	r.instance = c
	return c, nil
}

// Close disconnects the handle if one was opened. Open may be called again afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.instance == nil {
		return nil
	}
	err := r.instance.Disconnect()
	r.instance = nil
	return err
}

// Compile-time interface compliance checks
var (
	_ Cache = (*inmemory.InMemoryCache)(nil)
	_ Cache = (*redis.RedisCache)(nil)
	_ Cache = (*sqlkv.SQLCache)(nil)
)
