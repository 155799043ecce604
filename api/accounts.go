package api

import (
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/account"
	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service account.AccountUseCase
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Balance  int64  `json:"balance"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func NewAccountHandler(service account.AccountUseCase) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) Register(router *gin.RouterGroup) {
	router.POST("/users", h.createUser)
	router.POST("/sessions", h.login)
	router.DELETE("/sessions", h.logout)
}

func (h *AccountHandler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.CreateUser(c.Request.Context(), req.Username, req.Password, req.Balance); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": req.Username})
}

func (h *AccountHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.Login(c.Request.Context(), c.GetHeader(sessionHeader), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, Username: req.Username})
}

func (h *AccountHandler) logout(c *gin.Context) {
	token := c.GetHeader(sessionHeader)
	if token == "" {
		respondError(c, domain.ErrNotAuthenticated)
		return
	}
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
