package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oikos/disc-backend/internal/response"
)

// SessionChecker reports whether a session still has stored state.
type SessionChecker interface {
	SessionActive(ctx context.Context, sessionID string) (bool, error)
}

// CheckSession rejects tokens whose session was ended by logout or expiry.
func CheckSession(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		active, err := sessions.SessionActive(c.Request.Context(), claims.SessionID())
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if !active {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
