package roster

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tournamate/rosterd/pkg/common/structs"
	"github.com/tournamate/rosterd/pkg/logger"
	"github.com/tournamate/rosterd/pkg/store"
)

// step is one path write. stage adds it to a batch, apply performs it alone.
type step struct {
	name  string
	stage func(b *store.Batch) error
	apply func(ctx context.Context) error
}

type plan struct {
	operation string
	steps     []step
}

func newPlan(operation string) *plan {
	return &plan{operation: operation}
}

func (p *plan) names(steps []step) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.name)
	}
	return names
}

func (c *Coordinator) execute(ctx context.Context, p *plan) error {
	if len(p.steps) == 0 {
		return nil
	}
	if c.strategy == StrategySequential {
		return c.applySequential(ctx, p)
	}

	b := store.NewBatch()
	for _, s := range p.steps {
		if err := s.stage(b); err != nil {
			return err
		}
	}
	return c.store.Commit(ctx, b)
}

func (c *Coordinator) applySequential(ctx context.Context, p *plan) error {
	for i, s := range p.steps {
		err := s.apply(ctx)
		if err == nil {
			continue
		}
		if i == 0 {
			return err
		}

		partial := &PartialConsistencyError{
			Operation: p.operation,
			Applied:   p.names(p.steps[:i]),
			Failed:    s.name,
			Pending:   p.names(p.steps[i+1:]),
			Err:       err,
		}
		logger.Logger(ctx).WithFields(logrus.Fields{
			"operation": p.operation,
			"applied":   partial.Applied,
			"failed":    partial.Failed,
			"pending":   partial.Pending,
		}).WithError(err).Error("roster diverged from player records, run a reconcile")
		return partial
	}
	return nil
}

func (c *Coordinator) putPlayerStep(player *structs.Player) step {
	return step{
		name:  "put " + store.PlayerKey(player.ID),
		stage: func(b *store.Batch) error { return c.store.Player.StagePut(b, player) },
		apply: func(ctx context.Context) error { return c.store.Player.Put(ctx, player) },
	}
}

func (c *Coordinator) deletePlayerStep(id string) step {
	return step{
		name: "delete " + store.PlayerKey(id),
		stage: func(b *store.Batch) error {
			c.store.Player.StageDelete(b, id)
			return nil
		},
		apply: func(ctx context.Context) error { return c.store.Player.Delete(ctx, id) },
	}
}

func (c *Coordinator) attachStep(teamID string, player *structs.Player) step {
	return step{
		name:  "attach " + store.RosterKey(teamID, player.ID),
		stage: func(b *store.Batch) error { return c.store.Team.StageAttach(b, teamID, player) },
		apply: func(ctx context.Context) error { return c.store.Team.AttachPlayer(ctx, teamID, player) },
	}
}

func (c *Coordinator) detachStep(teamID, playerID string) step {
	return step{
		name:  "detach " + store.RosterKey(teamID, playerID),
		stage: func(b *store.Batch) error { return c.store.Team.StageDetach(b, teamID, playerID) },
		apply: func(ctx context.Context) error { return c.store.Team.DetachPlayer(ctx, teamID, playerID) },
	}
}

func (c *Coordinator) deleteTeamStep(team *structs.Team) step {
	return step{
		name: "delete " + store.TeamKey(team.ID),
		stage: func(b *store.Batch) error {
			c.store.Team.StageDelete(b, team)
			return nil
		},
		apply: func(ctx context.Context) error { return c.store.Team.Delete(ctx, team.ID) },
	}
}
