package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/account"
	"github.com/Domenick1991/flightdesk/internal/service/search"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service  search.SearchUseCase
	accounts account.AccountUseCase
}

type itineraryResponse struct {
	Index    int             `json:"index"`
	Duration int             `json:"duration"`
	Price    int64           `json:"price"`
	Flights  []domain.Flight `json:"flights"`
}

func NewFlightHandler(service search.SearchUseCase, accounts account.AccountUseCase) *FlightHandler {
	return &FlightHandler{service: service, accounts: accounts}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights/search", optionalSession(h.accounts), h.search)
	router.GET("/flights/:id", h.get)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}

	flight, err := h.service.GetFlight(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) search(c *gin.Context) {
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	direct := c.Query("direct") == "true"

	q := search.Query{
		Origin:     c.Query("origin"),
		Dest:       c.Query("dest"),
		DirectOnly: direct,
		Day:        day,
		Limit:      limit,
	}
	if q.Origin == "" || q.Dest == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and dest are required"})
		return
	}

	itineraries, err := h.service.Search(c.Request.Context(), sessionFrom(c).Token, q)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]itineraryResponse, 0, len(itineraries))
	for i, it := range itineraries {
		flights := []domain.Flight{it.First}
		if it.Second != nil {
			flights = append(flights, *it.Second)
		}
		resp = append(resp, itineraryResponse{
			Index:    i,
			Duration: it.Duration(),
			Price:    it.Price(),
			Flights:  flights,
		})
	}
	c.JSON(http.StatusOK, gin.H{"itineraries": resp})
}
