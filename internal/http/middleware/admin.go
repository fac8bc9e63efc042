package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminKey guards debug endpoints. An empty configured key disables the check
// entirely, which is the expected local-development mode.
func AdminKey(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if required == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-Admin-Key") != required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
			return
		}
		c.Next()
	}
}
