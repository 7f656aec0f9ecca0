package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/model"
	"pomelo/internal/ratelimit"
)

// RateLimit 请求限流中间件
// 以客户端 IP 为身份，粗粒度防滥用；与每日配额互相独立
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.ClientIP()
		if clientID == "" {
			clientID = "unknown"
		}

		allowed, retryAfter := limiter.Allow(c.Request.Context(), clientID)
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.RateLimitResponse{
				Code:       42901,
				Message:    "Rate limit exceeded. Please try again later.",
				RetryAfter: retryAfter,
			})
			return
		}

		c.Next()
	}
}
