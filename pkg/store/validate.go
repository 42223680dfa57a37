package store

import (
	"fmt"
	"strings"

	"github.com/tournamate/rosterd/pkg/common/structs"
)

// ValidatePlayer checks required fields and counter signs
func ValidatePlayer(p *structs.Player) error {
	if p == nil {
		return fmt.Errorf("%w: player is required", ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.TeamID != "" {
		if err := ValidateID(p.TeamID); err != nil {
			return fmt.Errorf("%w: teamId: %w", ErrValidation, err)
		}
	}

	counters := map[string]int{
		"age":           p.Age,
		"goals":         p.Goals,
		"assists":       p.Assists,
		"matchesPlayed": p.MatchesPlayed,
		"matchesWon":    p.MatchesWon,
		"matchesLost":   p.MatchesLost,
		"yellowCards":   p.YellowCards,
		"redCards":      p.RedCards,
	}
	for name, value := range counters {
		if value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, name)
		}
	}
	return nil
}

func ValidateTeam(t *structs.Team) error {
	if t == nil {
		return fmt.Errorf("%w: team is required", ErrValidation)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}
