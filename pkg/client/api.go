package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tournamate/rosterd/pkg/common/structs"
	"github.com/tournamate/rosterd/pkg/roster"
)

func playerPath(id string) string {
	return "/api/players/" + url.PathEscape(id)
}

func teamPath(id string) string {
	return "/api/teams/" + url.PathEscape(id)
}

func (c *Client) ListPlayers(ctx context.Context) ([]*structs.Player, error) {
	var players []*structs.Player
	if err := c.do(ctx, c.retrying, http.MethodGet, "/api/players", nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (c *Client) GetPlayer(ctx context.Context, id string) (*structs.Player, error) {
	player := &structs.Player{}
	if err := c.do(ctx, c.retrying, http.MethodGet, playerPath(id), nil, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (c *Client) CreatePlayer(ctx context.Context, draft *structs.Player) (*structs.Player, error) {
	player := &structs.Player{}
	if err := c.do(ctx, c.once, http.MethodPost, "/api/players", draft, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (c *Client) UpdatePlayer(ctx context.Context, id string, data *structs.Player) (*structs.Player, error) {
	player := &structs.Player{}
	if err := c.do(ctx, c.retrying, http.MethodPut, playerPath(id), data, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (c *Client) DeletePlayer(ctx context.Context, id string) error {
	return c.do(ctx, c.retrying, http.MethodDelete, playerPath(id), nil, nil)
}

func (c *Client) ListTeams(ctx context.Context) ([]*structs.Team, error) {
	var teams []*structs.Team
	if err := c.do(ctx, c.retrying, http.MethodGet, "/api/teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *Client) GetTeam(ctx context.Context, id string) (*structs.Team, error) {
	team := &structs.Team{}
	if err := c.do(ctx, c.retrying, http.MethodGet, teamPath(id), nil, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (c *Client) CreateTeam(ctx context.Context, draft *structs.Team) (*structs.Team, error) {
	team := &structs.Team{}
	if err := c.do(ctx, c.once, http.MethodPost, "/api/teams", draft, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (c *Client) UpdateTeam(ctx context.Context, id string, data *structs.Team) (*structs.Team, error) {
	team := &structs.Team{}
	if err := c.do(ctx, c.retrying, http.MethodPut, teamPath(id), data, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (c *Client) DeleteTeam(ctx context.Context, id string) error {
	return c.do(ctx, c.retrying, http.MethodDelete, teamPath(id), nil, nil)
}

// Reconcile triggers a roster repair pass on the server
func (c *Client) Reconcile(ctx context.Context) (*roster.ReconcileReport, error) {
	report := &roster.ReconcileReport{}
	if err := c.do(ctx, c.retrying, http.MethodPost, "/api/admin/reconcile", nil, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Health returns the status reported by the server
func (c *Client) Health(ctx context.Context) (string, error) {
	var health struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, c.retrying, http.MethodGet, "/api/health", nil, &health); err != nil {
		return "", err
	}
	return health.Status, nil
}
