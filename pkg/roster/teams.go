package roster

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tournamate/rosterd/pkg/common/structs"
	"github.com/tournamate/rosterd/pkg/logger"
	"github.com/tournamate/rosterd/pkg/store"
)

func (c *Coordinator) ListTeams(ctx context.Context) ([]*structs.Team, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.Team.List(ctx)
}

func (c *Coordinator) GetTeam(ctx context.Context, id string) (*structs.Team, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.Team.Get(ctx, id)
}

// CreateTeam stores a new team with zero stats and an empty roster
func (c *Coordinator) CreateTeam(ctx context.Context, draft *structs.Team) (*structs.Team, error) {
	if err := store.ValidateTeam(draft); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	team, err := c.store.Team.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	logger.Logger(ctx).WithField("teamId", team.ID).Info("team created")
	return team, nil
}

// UpdateTeam replaces the team record. The roster in data is ignored.
func (c *Coordinator) UpdateTeam(ctx context.Context, id string, data *structs.Team) (*structs.Team, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	exists, err := c.store.Team.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound
	}
	if err := store.ValidateTeam(data); err != nil {
		return nil, err
	}

	team, err := c.store.Team.Update(ctx, id, data)
	if err != nil {
		return nil, err
	}

	logger.Logger(ctx).WithField("teamId", id).Info("team updated")
	return team, nil
}

// DeleteTeam removes the team and unassigns every player that referenced it.
// Players are cleared first, then roster entries, then the team record.
func (c *Coordinator) DeleteTeam(ctx context.Context, id string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	team, err := c.store.Team.Get(ctx, id)
	if err != nil {
		return err
	}

	players, err := c.store.Player.List(ctx)
	if err != nil {
		return err
	}

	p := newPlan("delete team")
	unassigned := 0
	for _, player := range players {
		if player.TeamID != id {
			continue
		}
		cleared := *player
		cleared.TeamID = ""
		p.steps = append(p.steps, c.putPlayerStep(&cleared))
		unassigned++
	}
	for playerID := range team.Players {
		p.steps = append(p.steps, c.detachStep(id, playerID))
	}
	p.steps = append(p.steps, c.deleteTeamStep(team))

	if err := c.execute(ctx, p); err != nil {
		return err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"teamId":     id,
		"unassigned": unassigned,
	}).Info("team deleted")
	return nil
}
