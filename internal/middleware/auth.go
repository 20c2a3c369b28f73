package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ro-recruiting/back-office-api/internal/service"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/response"
)

// ContextUserKey is where the authenticated user lives on the gin context.
const ContextUserKey = "auth.user"

// Auth guards routes with the session cookie, accepting a Bearer token as a
// fallback for API clients.
func Auth(auth *service.AuthService, cookieName string) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = "ro_recruiting_auth"
	}
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing session"))
			c.Abort()
			return
		}

		user, err := auth.Verify(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}
