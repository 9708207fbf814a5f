package ratelimit

import (
	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/config"
	"github.com/NaveedSindha/health-wellness-tracker/internal/response"
	"github.com/gin-gonic/gin"
)

// New returns a redis limiter when REDIS_ADDR is configured and an
// in-memory one otherwise.
func New(cfg *config.Config) ClosableLimiter {
	if cfg.RedisAddr != "" {
		return NewRedisLimiter(NewRedisClient(cfg), cfg.RateLimit, cfg.RateWindow)
	}
	return NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow)
}

// RateLimitByUser keys requests by authenticated user, falling back to the
// client IP. Limiter failures let the request through.
func RateLimitByUser(limiter Limiter, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id := c.GetString("user_id"); id != "" {
			key = "user:" + id
		}

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warnf("rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(internal.ErrRateLimited.Status, response.Failure(internal.ErrRateLimited))
			return
		}
		c.Next()
	}
}
