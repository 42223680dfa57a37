package roster

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tournamate/rosterd/pkg/common/structs"
	"github.com/tournamate/rosterd/pkg/logger"
	"github.com/tournamate/rosterd/pkg/store"
)

func (c *Coordinator) ListPlayers(ctx context.Context) ([]*structs.Player, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.Player.List(ctx)
}

func (c *Coordinator) GetPlayer(ctx context.Context, id string) (*structs.Player, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.store.Player.Get(ctx, id)
}

// CreatePlayer assigns a fresh id to draft, stores it and attaches it to the
// roster of draft.TeamID.
func (c *Coordinator) CreatePlayer(ctx context.Context, draft *structs.Player) (*structs.Player, error) {
	if err := store.ValidatePlayer(draft); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	id, err := c.store.Player.NewID(ctx)
	if err != nil {
		return nil, err
	}

	player := *draft
	player.ID = id

	p := newPlan("create player")
	p.steps = append(p.steps, c.putPlayerStep(&player))
	attach, err := c.rosterAttach(ctx, &player)
	if err != nil {
		return nil, err
	}
	p.steps = append(p.steps, attach...)

	if err := c.execute(ctx, p); err != nil {
		return nil, err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"playerId": player.ID,
		"teamId":   player.TeamID,
	}).Info("player created")
	return &player, nil
}

// UpdatePlayer replaces the player record, keeping its id. A changed team is
// applied in the order write, detach from the old team, attach to the new one,
// so a sequential failure never leaves the player on two rosters.
func (c *Coordinator) UpdatePlayer(ctx context.Context, id string, data *structs.Player) (*structs.Player, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	existing, err := c.store.Player.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := store.ValidatePlayer(data); err != nil {
		return nil, err
	}

	player := *data
	player.ID = id

	p := newPlan("update player")
	p.steps = append(p.steps, c.putPlayerStep(&player))
	if existing.IsAssigned() && existing.TeamID != player.TeamID {
		p.steps = append(p.steps, c.detachStep(existing.TeamID, id))
	}
	attach, err := c.rosterAttach(ctx, &player)
	if err != nil {
		return nil, err
	}
	p.steps = append(p.steps, attach...)

	if err := c.execute(ctx, p); err != nil {
		return nil, err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"playerId":   id,
		"fromTeamId": existing.TeamID,
		"toTeamId":   player.TeamID,
	}).Info("player updated")
	return &player, nil
}

// DeletePlayer removes the player record and its roster entry. Returns
// store.ErrNotFound when there is nothing to delete.
func (c *Coordinator) DeletePlayer(ctx context.Context, id string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	existing, err := c.store.Player.Get(ctx, id)
	if err != nil {
		return err
	}

	p := newPlan("delete player")
	p.steps = append(p.steps, c.deletePlayerStep(id))
	if existing.IsAssigned() {
		p.steps = append(p.steps, c.detachStep(existing.TeamID, id))
	}

	if err := c.execute(ctx, p); err != nil {
		return err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"playerId": id,
		"teamId":   existing.TeamID,
	}).Info("player deleted")
	return nil
}

// rosterAttach returns the attach step for player, or nothing when the player
// is unassigned or its team has no record. A missing team is not an error:
// the player is still written and Reconcile reports it as orphaned.
func (c *Coordinator) rosterAttach(ctx context.Context, player *structs.Player) ([]step, error) {
	if !player.IsAssigned() {
		return nil, nil
	}

	exists, err := c.store.Team.Exists(ctx, player.TeamID)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.Logger(ctx).WithFields(logrus.Fields{
			"playerId": player.ID,
			"teamId":   player.TeamID,
		}).Warn("team does not exist, player not added to any roster")
		return nil, nil
	}

	return []step{c.attachStep(player.TeamID, player)}, nil
}
