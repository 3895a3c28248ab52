package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oikos/disc-backend/internal/model"
	"github.com/oikos/disc-backend/internal/response"
)

// RequireRole checks that the session token carries role.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if claims.Role != role {
			code := response.ErrForbidden
			if role == model.RoleAdmin {
				code = response.ErrAdminAccessOnly
			}
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}

		c.Next()
	}
}
