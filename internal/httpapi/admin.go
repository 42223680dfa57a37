package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	reconciler Reconciler
}

func NewAdminHandler(reconciler Reconciler) *AdminHandler {
	return &AdminHandler{reconciler: reconciler}
}

// Reconcile runs a roster repair pass and returns its report
func (h *AdminHandler) Reconcile(c *gin.Context) {
	report, err := h.reconciler.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
