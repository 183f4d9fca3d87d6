package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"stock-tracker.backend/pkg/metrics"
)

// MetricsMiddleware records request counts and latency by matched route.
func MetricsMiddleware(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Observe(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
