package roster_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/gomega"

	"github.com/tournamate/rosterd/pkg/cache"
	"github.com/tournamate/rosterd/pkg/cache/inmemory"
	"github.com/tournamate/rosterd/pkg/roster"
	"github.com/tournamate/rosterd/pkg/store"
)

var errInjected = errors.New("injected write failure")

// faultyCache fails writes to keys starting with a configured prefix
type faultyCache struct {
	cache.Cache

	mu         sync.Mutex
	failPrefix string
}

func (f *faultyCache) failWrites(prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPrefix = prefix
}

func (f *faultyCache) shouldFail(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failPrefix != "" && strings.HasPrefix(key, f.failPrefix)
}

func (f *faultyCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.shouldFail(key) {
		return errInjected
	}
	return f.Cache.Set(ctx, key, value, ttl)
}

func (f *faultyCache) Delete(ctx context.Context, key string) error {
	if f.shouldFail(key) {
		return errInjected
	}
	return f.Cache.Delete(ctx, key)
}

func (f *faultyCache) WriteBatch(ctx context.Context, updates map[string]*string) error {
	for key := range updates {
		if f.shouldFail(key) {
			return errInjected
		}
	}
	return f.Cache.WriteBatch(ctx, updates)
}

type fixture struct {
	cache       *faultyCache
	store       *store.Store
	coordinator *roster.Coordinator
}

func newFixture(strategy roster.Strategy) *fixture {
	c, err := inmemory.NewCache(&inmemory.Config{
		DefaultExpiration: -1,
		CleanupInterval:   -1,
	})
	Expect(err).NotTo(HaveOccurred())

	fc := &faultyCache{Cache: c}
	s := store.New(fc)
	return &fixture{
		cache:       fc,
		store:       s,
		coordinator: roster.NewCoordinator(s, strategy, &sync.RWMutex{}),
	}
}

// dump returns every stored path
func (f *fixture) dump(ctx context.Context) map[string]interface{} {
	values, err := f.cache.GetByPattern(ctx, "*")
	Expect(err).NotTo(HaveOccurred())
	return values
}
