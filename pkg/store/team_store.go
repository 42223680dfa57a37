package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tournamate/rosterd/pkg/cache"
	"github.com/tournamate/rosterd/pkg/common/structs"
)

type TeamStore struct {
	cache cache.Cache
}

func newTeamStore(c cache.Cache) *TeamStore {
	return &TeamStore{cache: c}
}

// List reads all team records and all roster entries with two concurrent scans
func (s *TeamStore) List(ctx context.Context) ([]*structs.Team, error) {
	var (
		records map[string]interface{}
		rosters map[string]map[string]structs.Player
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pattern := collectionPattern(teamKeyPrefix)
		values, err := s.cache.GetByPattern(gctx, pattern)
		if err != nil {
			return backendErr("scan", pattern, err)
		}
		records = values
		return nil
	})
	g.Go(func() error {
		var err error
		rosters, err = s.Rosters(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	teams := make([]*structs.Team, 0, len(records))
	for key, raw := range records {
		team := &structs.Team{}
		if err := decode(raw, team); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		team.ID = strings.TrimPrefix(key, teamKeyPrefix+keySeparator)
		team.Players = rosters[team.ID]
		if team.Players == nil {
			team.Players = map[string]structs.Player{}
		}
		teams = append(teams, team)
	}

	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

// Rosters scans every roster entry and groups the snapshots by team id.
// Entries under a team without a record are included.
func (s *TeamStore) Rosters(ctx context.Context) (map[string]map[string]structs.Player, error) {
	pattern := collectionPattern(rosterKeyPrefix)
	entries, err := s.cache.GetByPattern(ctx, pattern)
	if err != nil {
		return nil, backendErr("scan", pattern, err)
	}

	rosters := make(map[string]map[string]structs.Player)
	for key, raw := range entries {
		teamID, playerID, ok := splitRosterKey(key)
		if !ok {
			continue
		}
		var player structs.Player
		if err := decode(raw, &player); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		if rosters[teamID] == nil {
			rosters[teamID] = make(map[string]structs.Player)
		}
		rosters[teamID][playerID] = player
	}
	return rosters, nil
}

func (s *TeamStore) Get(ctx context.Context, id string) (*structs.Team, error) {
	if ValidateID(id) != nil {
		return nil, ErrNotFound
	}

	var (
		team   *structs.Team
		roster map[string]structs.Player
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		team, err = s.getRecord(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		roster, err = s.Roster(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	team.Players = roster
	return team, nil
}

func (s *TeamStore) Exists(ctx context.Context, id string) (bool, error) {
	if ValidateID(id) != nil {
		return false, nil
	}
	_, err := s.getRecord(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *TeamStore) Create(ctx context.Context, team *structs.Team) (*structs.Team, error) {
	if team == nil {
		return nil, fmt.Errorf("%w: team is required", ErrValidation)
	}

	id, err := s.cache.GenerateKey(ctx, teamKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIDGeneration, err)
	}
	if err := ValidateID(id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIDGeneration, err)
	}

	created := *team
	created.ID = id
	created.Stats = structs.TeamStats{}
	created.Players = map[string]structs.Player{}

	if err := s.putRecord(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *TeamStore) Update(ctx context.Context, id string, team *structs.Team) (*structs.Team, error) {
	if team == nil {
		return nil, fmt.Errorf("%w: team is required", ErrValidation)
	}
	if ValidateID(id) != nil {
		return nil, ErrNotFound
	}
	if _, err := s.getRecord(ctx, id); err != nil {
		return nil, err
	}

	updated := *team
	updated.ID = id
	if err := s.putRecord(ctx, &updated); err != nil {
		return nil, err
	}

	// roster entries are owned by the coordinator and never replaced here
	roster, err := s.Roster(ctx, id)
	if err != nil {
		return nil, err
	}
	updated.Players = roster
	return &updated, nil
}

func (s *TeamStore) Delete(ctx context.Context, id string) error {
	team, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	b := NewBatch()
	s.StageDelete(b, team)
	if err := s.cache.WriteBatch(ctx, b.Updates()); err != nil {
		return backendErr("delete", TeamKey(id), err)
	}
	return nil
}

func (s *TeamStore) Roster(ctx context.Context, teamID string) (map[string]structs.Player, error) {
	if err := ValidateID(teamID); err != nil {
		return nil, err
	}

	pattern := rosterPattern(teamID)
	values, err := s.cache.GetByPattern(ctx, pattern)
	if err != nil {
		return nil, backendErr("scan", pattern, err)
	}

	roster := make(map[string]structs.Player, len(values))
	prefix := rosterPrefix(teamID)
	for key, raw := range values {
		var player structs.Player
		if err := decode(raw, &player); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		roster[strings.TrimPrefix(key, prefix)] = player
	}
	return roster, nil
}

func (s *TeamStore) AttachPlayer(ctx context.Context, teamID string, player *structs.Player) error {
	key, value, err := rosterEntry(teamID, player)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		return backendErr("set", key, err)
	}
	return nil
}

func (s *TeamStore) DetachPlayer(ctx context.Context, teamID, playerID string) error {
	key, err := rosterPath(teamID, playerID)
	if err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return backendErr("delete", key, err)
	}
	return nil
}

func (s *TeamStore) StageAttach(b *Batch, teamID string, player *structs.Player) error {
	key, value, err := rosterEntry(teamID, player)
	if err != nil {
		return err
	}
	b.Set(key, value)
	return nil
}

func (s *TeamStore) StageDetach(b *Batch, teamID, playerID string) error {
	key, err := rosterPath(teamID, playerID)
	if err != nil {
		return err
	}
	b.Delete(key)
	return nil
}

func (s *TeamStore) StageDelete(b *Batch, team *structs.Team) {
	b.Delete(TeamKey(team.ID))
	for playerID := range team.Players {
		b.Delete(RosterKey(team.ID, playerID))
	}
}

func (s *TeamStore) getRecord(ctx context.Context, id string) (*structs.Team, error) {
	key := TeamKey(id)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, backendErr("get", key, err)
	}

	team := &structs.Team{}
	if err := decode(raw, team); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	team.ID = id
	return team, nil
}

// putRecord stores the team without its roster
func (s *TeamStore) putRecord(ctx context.Context, team *structs.Team) error {
	record := *team
	record.Players = nil

	value, err := encode(&record)
	if err != nil {
		return fmt.Errorf("failed to encode team %s: %w", team.ID, err)
	}

	key := TeamKey(team.ID)
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		return backendErr("set", key, err)
	}
	return nil
}

func rosterPath(teamID, playerID string) (string, error) {
	if teamID == "" {
		return "", ErrEmptyTeamID
	}
	if err := ValidateID(teamID); err != nil {
		return "", err
	}
	if err := ValidateID(playerID); err != nil {
		return "", err
	}
	return RosterKey(teamID, playerID), nil
}

func rosterEntry(teamID string, player *structs.Player) (string, string, error) {
	if player == nil {
		return "", "", fmt.Errorf("%w: player is required", ErrValidation)
	}
	key, err := rosterPath(teamID, player.ID)
	if err != nil {
		return "", "", err
	}
	value, err := encode(player)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode player %s: %w", player.ID, err)
	}
	return key, value, nil
}

func splitRosterKey(key string) (teamID, playerID string, ok bool) {
	rest, found := strings.CutPrefix(key, rosterKeyPrefix+keySeparator)
	if !found {
		return "", "", false
	}
	return strings.Cut(rest, keySeparator)
}
