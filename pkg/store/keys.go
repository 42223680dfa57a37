package store

import (
	"fmt"
	"strings"
)

// Key layout:
//
//	player:<id>                 canonical player
//	team:<id>                   canonical team record, roster excluded
//	roster:<teamID>:<playerID>  snapshot of the player inside the team roster
const (
	playerKeyPrefix = "player"
	teamKeyPrefix   = "team"
	rosterKeyPrefix = "roster"
	keySeparator    = ":"

	// ids are joined into keys and glob patterns
	forbiddenIDChars = `:*?[]\`
)

func PlayerKey(id string) string {
	return playerKeyPrefix + keySeparator + id
}

func TeamKey(id string) string {
	return teamKeyPrefix + keySeparator + id
}

func RosterKey(teamID, playerID string) string {
	return rosterKeyPrefix + keySeparator + teamID + keySeparator + playerID
}

func rosterPrefix(teamID string) string {
	return rosterKeyPrefix + keySeparator + teamID + keySeparator
}

func rosterPattern(teamID string) string {
	return rosterPrefix(teamID) + "*"
}

func collectionPattern(prefix string) string {
	return prefix + keySeparator + "*"
}

// ValidateID rejects ids that cannot be embedded in a key
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if strings.ContainsAny(id, forbiddenIDChars) {
		return fmt.Errorf("%w: %q contains one of %q", ErrInvalidID, id, forbiddenIDChars)
	}
	return nil
}
