package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/learnhub/lms-backend/internal/http/response"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
)

type RateLimiter struct {
	log    *logger.Logger
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter builds a fixed-window counter keyed by client IP. A nil
// redis client disables limiting, which keeps local development and
// tests free of a redis dependency.
func NewRateLimiter(log *logger.Logger, client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		log:    log.With("middleware", "RateLimiter"),
		client: client,
		limit:  limit,
		window: window,
	}
}

func (rl *RateLimiter) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil {
			c.Next()
			return
		}
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())
		ctx := c.Request.Context()

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down should not lock everyone out.
			rl.log.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
				rl.log.Warn("failed to set rate limit window", "key", key, "error", err)
			}
		}
		if count > int64(rl.limit) {
			response.AbortError(c, apierr.New(429, "too_many_requests", fmt.Errorf("too many requests, try again later")))
			return
		}
		c.Next()
	}
}
