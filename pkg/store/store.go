package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tournamate/rosterd/pkg/cache"
)

// Store provides a high-level interface for managing players, teams and rosters in cache
// It encapsulates key prefixing and JSON serialization
// NOTE: This store does NOT handle locking - callers are responsible for proper synchronization
type Store struct {
	Player PlayerStoreInterface
	Team   TeamStoreInterface

	cache cache.Cache
}

// New creates a new Store instance with all sub-stores initialized
func New(c cache.Cache) *Store {
	return &Store{
		Player: newPlayerStore(c),
		Team:   newTeamStore(c),
		cache:  c,
	}
}

// Commit applies every staged path of b at once. Either all of them are
// visible afterwards or none is.
func (s *Store) Commit(ctx context.Context, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return nil
	}
	if err := s.cache.WriteBatch(ctx, b.Updates()); err != nil {
		return fmt.Errorf("%w: batch of %d paths: %w", ErrBackend, b.Len(), err)
	}
	return nil
}

// Compile-time interface compliance checks
var (
	_ PlayerStoreInterface = (*PlayerStore)(nil)
	_ TeamStoreInterface   = (*TeamStore)(nil)
)

func encode(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decode accepts the string or []byte values returned by the cache drivers
func decode(raw interface{}, out interface{}) error {
	switch v := raw.(type) {
	case string:
		return json.Unmarshal([]byte(v), out)
	case []byte:
		return json.Unmarshal(v, out)
	default:
		return fmt.Errorf("unexpected cache value type %T", raw)
	}
}
