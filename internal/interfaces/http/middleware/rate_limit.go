package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/pkg/logger"
	"stock-tracker.backend/pkg/redis"
)

var incrWindow = redis.IncrWindow

// RateLimitMiddleware allows limit requests per client IP and route within window.
// A redis outage lets requests through.
func RateLimitMiddleware(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())
		count, err := incrWindow(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn(c.Request.Context(), "Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(window.Seconds()))))
			msg := "Too many requests. Please try again later."
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    domainerrors.CodeTooManyRequests,
				"message": msg,
				"error":   msg,
			})
			return
		}
		c.Next()
	}
}
