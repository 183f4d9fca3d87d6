package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaintenanceMiddleware answers 503 for everything it wraps while enabled.
func MaintenanceMiddleware(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Site under maintenance",
			"message": "Please try again later",
		})
	}
}
