// internal/interfaces/http/middleware/identity.go
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Identity resolves the calling user from the X-User-Id header set by
// the API gateway. Authentication itself happens upstream; this service
// only trusts the forwarded id. Requests without a valid header are
// rejected on the routes that require a user.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-User-Id")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing X-User-Id header",
			})
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(header, 10, 32)
		if err != nil || userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid X-User-Id header",
			})
			c.Abort()
			return
		}

		c.Set("user_id", uint(userID))
		c.Next()
	}
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}
