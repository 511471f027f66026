package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextUserKey = "authUserID"

// Middleware authenticates requests with a Bearer access token and stores the
// user id on the gin context. Requests without a valid token are rejected.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		userID, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(contextUserKey, userID)
		c.Next()
	}
}

// CurrentUser returns the authenticated user id set by Middleware.
func CurrentUser(c *gin.Context) string {
	return c.GetString(contextUserKey)
}
