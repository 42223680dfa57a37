package structs

// Player is the canonical player record. TeamID is empty for an unassigned player.
type Player struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	TeamID            string   `json:"teamId"`
	Category          string   `json:"category"`
	BasePrice         string   `json:"basePrice"`
	PreferredPosition []string `json:"preferredPosition"`
	PreferredFoot     string   `json:"preferredFoot"`
	Age               int      `json:"age,omitempty"`
	Remarks           []string `json:"remarks"`
	AvatarURL         string   `json:"avatarUrl,omitempty"`

	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	MatchesPlayed int `json:"matchesPlayed"`
	MatchesWon    int `json:"matchesWon"`
	MatchesLost   int `json:"matchesLost"`
	YellowCards   int `json:"yellowCards"`
	RedCards      int `json:"redCards"`
}

// IsAssigned reports whether the player references a team
func (p *Player) IsAssigned() bool {
	return p.TeamID != ""
}
