package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID = "user_id"

	// DefaultUserID is the single-user demo identity used when the fronting
	// proxy does not supply one.
	DefaultUserID = "demo-user"

	userIDHeader = "X-User-Id"
)

// ResolveUser resolves the caller identity for every request. Session
// handling lives outside this service; we trust the identity header set by
// the fronting layer and fall back to the demo user.
func ResolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(userIDHeader))
		if userID == "" {
			userID = DefaultUserID
		}
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// UserID returns the resolved user id for the current request.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return DefaultUserID
}
