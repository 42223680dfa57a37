// Package httpapi exposes the roster coordinator over HTTP. Handlers only
// translate requests and map errors to status codes.
package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tournamate/rosterd/pkg/common/structs"
	"github.com/tournamate/rosterd/pkg/roster"
)

type PlayerService interface {
	ListPlayers(ctx context.Context) ([]*structs.Player, error)
	GetPlayer(ctx context.Context, id string) (*structs.Player, error)
	CreatePlayer(ctx context.Context, draft *structs.Player) (*structs.Player, error)
	UpdatePlayer(ctx context.Context, id string, data *structs.Player) (*structs.Player, error)
	DeletePlayer(ctx context.Context, id string) error
}

type TeamService interface {
	ListTeams(ctx context.Context) ([]*structs.Team, error)
	GetTeam(ctx context.Context, id string) (*structs.Team, error)
	CreateTeam(ctx context.Context, draft *structs.Team) (*structs.Team, error)
	UpdateTeam(ctx context.Context, id string, data *structs.Team) (*structs.Team, error)
	DeleteTeam(ctx context.Context, id string) error
}

type Reconciler interface {
	Reconcile(ctx context.Context) (*roster.ReconcileReport, error)
}

type RouterConfig struct {
	Players        PlayerService
	Teams          TeamService
	Reconciler     Reconciler
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(AttachRequestContext())
	r.Use(RequestLogger())
	r.Use(CORS(cfg.AllowedOrigins))

	api := r.Group("/api")
	api.GET("/health", NewHealthHandler().HealthCheck)

	if cfg.Players != nil {
		h := NewPlayerHandler(cfg.Players)
		api.GET("/players", h.List)
		api.GET("/players/:id", h.Get)
		api.POST("/players", h.Create)
		api.PUT("/players/:id", h.Update)
		api.DELETE("/players/:id", h.Delete)
	}

	if cfg.Teams != nil {
		h := NewTeamHandler(cfg.Teams)
		api.GET("/teams", h.List)
		api.GET("/teams/:id", h.Get)
		api.POST("/teams", h.Create)
		api.PUT("/teams/:id", h.Update)
		api.DELETE("/teams/:id", h.Delete)
	}

	if cfg.Reconciler != nil {
		api.POST("/admin/reconcile", NewAdminHandler(cfg.Reconciler).Reconcile)
	}

	return r
}

// Compile-time interface compliance checks
var (
	_ PlayerService = (*roster.Coordinator)(nil)
	_ TeamService   = (*roster.Coordinator)(nil)
	_ Reconciler    = (*roster.Coordinator)(nil)
)
