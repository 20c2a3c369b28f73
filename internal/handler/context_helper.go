package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ro-recruiting/back-office-api/internal/middleware"
	"github.com/ro-recruiting/back-office-api/internal/models"
)

// currentUser extracts the authenticated user stored by the auth middleware.
func currentUser(c *gin.Context) (*models.SessionUser, bool) {
	raw, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := raw.(*models.SessionUser)
	return user, ok
}

// currentUsername returns the session username, or "system" for unauthenticated
// internal calls.
func currentUsername(c *gin.Context) string {
	if user, ok := currentUser(c); ok {
		return user.Username
	}
	return "system"
}
