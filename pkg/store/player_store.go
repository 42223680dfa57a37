package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tournamate/rosterd/pkg/cache"
	"github.com/tournamate/rosterd/pkg/common/structs"
)

type PlayerStore struct {
	cache cache.Cache
}

func newPlayerStore(c cache.Cache) *PlayerStore {
	return &PlayerStore{cache: c}
}

func (s *PlayerStore) List(ctx context.Context) ([]*structs.Player, error) {
	pattern := collectionPattern(playerKeyPrefix)
	values, err := s.cache.GetByPattern(ctx, pattern)
	if err != nil {
		return nil, backendErr("scan", pattern, err)
	}

	players := make([]*structs.Player, 0, len(values))
	for key, raw := range values {
		player := &structs.Player{}
		if err := decode(raw, player); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		if player.ID == "" {
			player.ID = strings.TrimPrefix(key, playerKeyPrefix+keySeparator)
		}
		players = append(players, player)
	}

	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (s *PlayerStore) Get(ctx context.Context, id string) (*structs.Player, error) {
	if ValidateID(id) != nil {
		return nil, ErrNotFound
	}

	key := PlayerKey(id)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, backendErr("get", key, err)
	}

	player := &structs.Player{}
	if err := decode(raw, player); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	player.ID = id
	return player, nil
}

func (s *PlayerStore) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *PlayerStore) NewID(ctx context.Context) (string, error) {
	id, err := s.cache.GenerateKey(ctx, playerKeyPrefix)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIDGeneration, err)
	}
	if err := ValidateID(id); err != nil {
		return "", fmt.Errorf("%w: %w", ErrIDGeneration, err)
	}
	return id, nil
}

func (s *PlayerStore) Put(ctx context.Context, player *structs.Player) error {
	key, value, err := playerEntry(player)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		return backendErr("set", key, err)
	}
	return nil
}

func (s *PlayerStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	key := PlayerKey(id)
	if err := s.cache.Delete(ctx, key); err != nil {
		return backendErr("delete", key, err)
	}
	return nil
}

func (s *PlayerStore) StagePut(b *Batch, player *structs.Player) error {
	key, value, err := playerEntry(player)
	if err != nil {
		return err
	}
	b.Set(key, value)
	return nil
}

func (s *PlayerStore) StageDelete(b *Batch, id string) {
	b.Delete(PlayerKey(id))
}

func playerEntry(player *structs.Player) (string, string, error) {
	if player == nil {
		return "", "", fmt.Errorf("%w: player is required", ErrValidation)
	}
	if err := ValidateID(player.ID); err != nil {
		return "", "", err
	}
	value, err := encode(player)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode player %s: %w", player.ID, err)
	}
	return PlayerKey(player.ID), value, nil
}
