package api

import (
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/account"
	"github.com/gin-gonic/gin"
)

const sessionHeader = "X-Session-Token"

const sessionContextKey = "session"

// requireSession resolves the session token and aborts with 401 when the
// caller is not authenticated.
func requireSession(accounts account.AccountUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := accounts.Resolve(c.Request.Context(), c.GetHeader(sessionHeader))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// optionalSession resolves the session when a token is present but lets
// anonymous callers through.
func optionalSession(accounts account.AccountUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(sessionHeader)
		if token != "" {
			if session, err := accounts.Resolve(c.Request.Context(), token); err == nil {
				c.Set(sessionContextKey, session)
			}
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) domain.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if session, ok := v.(domain.Session); ok {
			return session
		}
	}
	return domain.Session{}
}
