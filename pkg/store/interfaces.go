package store

import (
	"context"

	"github.com/tournamate/rosterd/pkg/common/structs"
)

// PlayerStoreInterface defines operations on canonical player records
// Key format: "player:<id>"
// It never touches team rosters; keeping rosters in step is the job of the
// roster coordinator.
type PlayerStoreInterface interface {
	// List returns every stored player ordered by id
	// Returns an empty slice when nothing is stored
	List(ctx context.Context) ([]*structs.Player, error)

	// Get returns the player or ErrNotFound
	Get(ctx context.Context, id string) (*structs.Player, error)

	// Exists checks if a player record is stored
	Exists(ctx context.Context, id string) (bool, error)

	// NewID asks the backend for a fresh unique player id
	NewID(ctx context.Context) (string, error)

	// Put writes the full player record at player:<player.ID>
	Put(ctx context.Context, player *structs.Player) error

	// Delete removes the player record
	// Deleting a missing id is not an error
	Delete(ctx context.Context, id string) error

	// StagePut adds the player record write to b
	StagePut(b *Batch, player *structs.Player) error

	// StageDelete adds the player record removal to b
	StageDelete(b *Batch, id string)
}

// TeamStoreInterface defines operations on team records and their rosters
// Key format: "team:<id>" for the record, "roster:<teamID>:<playerID>" for
// each roster entry
type TeamStoreInterface interface {
	// List returns every team with its roster, ordered by id
	List(ctx context.Context) ([]*structs.Team, error)

	// Get returns the team with its roster or ErrNotFound
	Get(ctx context.Context, id string) (*structs.Team, error)

	// Exists checks if a team record is stored
	Exists(ctx context.Context, id string) (bool, error)

	// Create assigns a fresh id, zeroes the stats and starts with an empty
	// roster. Players and stats present in team are ignored.
	Create(ctx context.Context, team *structs.Team) (*structs.Team, error)

	// Update replaces the team record in place, keeping its id and roster
	// Returns ErrNotFound if the team does not exist
	Update(ctx context.Context, id string, team *structs.Team) (*structs.Team, error)

	// Delete removes the team record and its roster subtree in one batch
	// Player records are not modified. Returns ErrNotFound if the team does
	// not exist.
	Delete(ctx context.Context, id string) error

	// Roster returns the roster snapshots of a team keyed by player id
	Roster(ctx context.Context, teamID string) (map[string]structs.Player, error)

	// Rosters returns every roster entry grouped by team id, including
	// entries whose team record is missing
	Rosters(ctx context.Context) (map[string]map[string]structs.Player, error)

	// AttachPlayer writes the player snapshot into the team roster
	// Returns ErrEmptyTeamID for an empty team id
	AttachPlayer(ctx context.Context, teamID string, player *structs.Player) error

	// DetachPlayer removes the player from the team roster
	// Detaching an absent player is not an error
	DetachPlayer(ctx context.Context, teamID, playerID string) error

	// StageAttach adds the roster write to b
	StageAttach(b *Batch, teamID string, player *structs.Player) error

	// StageDetach adds the roster removal to b
	StageDetach(b *Batch, teamID, playerID string) error

	// StageDelete adds removal of the team record and every roster entry of
	// team to b
	StageDelete(b *Batch, team *structs.Team)
}
