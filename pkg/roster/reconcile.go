package roster

import (
	"context"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sirupsen/logrus"

	"github.com/tournamate/rosterd/pkg/common/structs"
	"github.com/tournamate/rosterd/pkg/logger"
	"github.com/tournamate/rosterd/pkg/store"
)

// RosterEntry names one roster path
type RosterEntry struct {
	TeamID   string `json:"teamId"`
	PlayerID string `json:"playerId"`
}

// ReconcileReport lists what a reconcile pass changed
type ReconcileReport struct {
	// Attached are snapshots written because they were missing or stale
	Attached []RosterEntry `json:"attached"`

	// Detached are entries removed because the player is gone, plays
	// elsewhere or the team record no longer exists
	Detached []RosterEntry `json:"detached"`

	// Orphaned are ids of players whose team has no record
	Orphaned []string `json:"orphaned"`
}

func (r *ReconcileReport) Changed() bool {
	return len(r.Attached) > 0 || len(r.Detached) > 0
}

// snapshots decode from JSON, so nil and empty slices are the same value
var snapshotEqual = cmpopts.EquateEmpty()

// Reconcile rebuilds every roster from the player records. All repairs are
// committed as one batch regardless of the write strategy. It holds the write
// lock, so no mutation is half applied while it reads.
func (c *Coordinator) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	players, err := c.store.Player.List(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := c.store.Team.List(ctx)
	if err != nil {
		return nil, err
	}
	// scanned separately so entries under a deleted team record are seen too
	rosters, err := c.store.Team.Rosters(ctx)
	if err != nil {
		return nil, err
	}

	teamExists := make(map[string]bool, len(teams))
	for _, team := range teams {
		teamExists[team.ID] = true
	}
	playersByID := make(map[string]*structs.Player, len(players))
	for _, player := range players {
		playersByID[player.ID] = player
	}

	report := &ReconcileReport{
		Attached: []RosterEntry{},
		Detached: []RosterEntry{},
		Orphaned: []string{},
	}
	b := store.NewBatch()

	for _, player := range players {
		if !player.IsAssigned() {
			continue
		}
		if !teamExists[player.TeamID] {
			report.Orphaned = append(report.Orphaned, player.ID)
			continue
		}
		snapshot, ok := rosters[player.TeamID][player.ID]
		if ok && cmp.Equal(snapshot, *player, snapshotEqual) {
			continue
		}
		if err := c.store.Team.StageAttach(b, player.TeamID, player); err != nil {
			return nil, err
		}
		report.Attached = append(report.Attached, RosterEntry{TeamID: player.TeamID, PlayerID: player.ID})
	}

	for teamID, entries := range rosters {
		for playerID := range entries {
			player, ok := playersByID[playerID]
			if ok && player.TeamID == teamID && teamExists[teamID] {
				continue
			}
			if err := c.store.Team.StageDetach(b, teamID, playerID); err != nil {
				return nil, err
			}
			report.Detached = append(report.Detached, RosterEntry{TeamID: teamID, PlayerID: playerID})
		}
	}

	if err := c.store.Commit(ctx, b); err != nil {
		return nil, err
	}

	sortEntries(report.Attached)
	sortEntries(report.Detached)
	sort.Strings(report.Orphaned)

	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"players":  len(players),
		"teams":    len(teams),
		"attached": len(report.Attached),
		"detached": len(report.Detached),
		"orphaned": len(report.Orphaned),
	})
	if report.Changed() {
		log.Warn("rosters repaired")
	} else {
		log.Info("rosters consistent")
	}
	return report, nil
}

func sortEntries(entries []RosterEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TeamID != entries[j].TeamID {
			return entries[i].TeamID < entries[j].TeamID
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
}
