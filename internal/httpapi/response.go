package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tournamate/rosterd/pkg/logger"
	"github.com/tournamate/rosterd/pkg/store"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	msgBadRequest    = "bad request"
	msgInternalError = "internal server error"
)

// respondError maps coordinator errors to status codes. Details stay in the log.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, store.ErrValidation):
		logger.Logger(c.Request.Context()).WithError(err).Debug("rejected request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgBadRequest})
	default:
		logger.Logger(c.Request.Context()).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternalError})
	}
}

func respondBadRequest(c *gin.Context, err error) {
	logger.Logger(c.Request.Context()).WithError(err).Debug("malformed request body")
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgBadRequest})
}
