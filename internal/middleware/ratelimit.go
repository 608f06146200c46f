package middleware

import (
	"fmt"
	"net/http"

	"anoa.com/wismacare/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
)

// RateLimit applies a per-IP fixed window to a route group. Used on the auth
// endpoints to slow brute-force attempts.
func RateLimit(limiter *ratelimiter.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", action, c.ClientIP())

		if err := limiter.Allow(c.Request.Context(), key); err != nil {
			if rateLimitErr, ok := err.(*ratelimiter.RateLimitError); ok {
				c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
				c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Message})
				c.Abort()
				return
			}
			// Redis trouble should not lock users out.
			c.Next()
			return
		}

		c.Next()
	}
}
