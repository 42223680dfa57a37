package structs

// TeamStats holds aggregate counters. They are written by clients and never
// recomputed from roster changes.
type TeamStats struct {
	TotalGoals       int `json:"totalGoals"`
	TotalAssists     int `json:"totalAssists"`
	MatchesPlayed    int `json:"matchesPlayed"`
	MatchesWon       int `json:"matchesWon"`
	MatchesLost      int `json:"matchesLost"`
	MatchesDrawn     int `json:"matchesDrawn"`
	GoalsAgainst     int `json:"goalsAgainst"`
	CleanSheets      int `json:"cleanSheets"`
	TotalYellowCards int `json:"totalYellowCards"`
	TotalRedCards    int `json:"totalRedCards"`
}

// Team is the canonical team record. Players is the denormalized roster:
// player id -> snapshot of that player's full record.
type Team struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Owner   string            `json:"owner"`
	LogoURL string            `json:"logoUrl"`
	Group   string            `json:"group,omitempty"`
	Players map[string]Player `json:"players"`
	Stats   TeamStats         `json:"stats"`
}
