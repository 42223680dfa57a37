package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tournamate/rosterd/pkg/common/structs"
)

type PlayerHandler struct {
	players PlayerService
}

func NewPlayerHandler(players PlayerService) *PlayerHandler {
	return &PlayerHandler{players: players}
}

func (h *PlayerHandler) List(c *gin.Context) {
	players, err := h.players.ListPlayers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

func (h *PlayerHandler) Get(c *gin.Context) {
	player, err := h.players.GetPlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

func (h *PlayerHandler) Create(c *gin.Context) {
	var draft structs.Player
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondBadRequest(c, err)
		return
	}

	player, err := h.players.CreatePlayer(c.Request.Context(), &draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, player)
}

func (h *PlayerHandler) Update(c *gin.Context) {
	var data structs.Player
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBadRequest(c, err)
		return
	}

	player, err := h.players.UpdatePlayer(c.Request.Context(), c.Param("id"), &data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

func (h *PlayerHandler) Delete(c *gin.Context) {
	if err := h.players.DeletePlayer(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
