package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/account"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service  booking.BookingUseCase
	accounts account.AccountUseCase
}

type bookRequest struct {
	Itinerary int `json:"itinerary"`
}

type reservationResponse struct {
	ID      int64           `json:"id"`
	Paid    bool            `json:"paid"`
	Flights []domain.Flight `json:"flights"`
}

func NewBookingHandler(service booking.BookingUseCase, accounts account.AccountUseCase) *BookingHandler {
	return &BookingHandler{service: service, accounts: accounts}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	authed := router.Group("/bookings", requireSession(h.accounts))
	authed.POST("", h.book)
	authed.GET("", h.list)
	authed.POST("/:id/payment", h.pay)
	authed.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.service.Book(c.Request.Context(), sessionFrom(c), req.Itinerary)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservation_id": id})
}

func (h *BookingHandler) pay(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	balance, err := h.service.Pay(c.Request.Context(), sessionFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation_id": id, "balance": balance})
}

func (h *BookingHandler) list(c *gin.Context) {
	reservations, err := h.service.ListReservations(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]reservationResponse, 0, len(reservations))
	for _, r := range reservations {
		resp = append(resp, reservationResponse{ID: r.ID, Paid: r.Paid, Flights: r.Legs})
	}
	c.JSON(http.StatusOK, gin.H{"reservations": resp})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), sessionFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
