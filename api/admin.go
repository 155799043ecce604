package api

import (
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin repository.AdminRepository
}

func NewAdminHandler(admin repository.AdminRepository) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.POST("/admin/reset", h.reset)
}

// reset wipes users, itineraries, reservations and capacities. Flights are
// reference data and survive.
func (h *AdminHandler) reset(c *gin.Context) {
	if err := h.admin.Reset(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
