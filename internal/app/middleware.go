package app

import (
	"github.com/redis/go-redis/v9"

	"github.com/learnhub/lms-backend/internal/http/middleware"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
)

type middlewareSet struct {
	auth    *middleware.AuthMiddleware
	limiter *middleware.RateLimiter
}

func wireMiddleware(cfg *Config, log *logger.Logger, s *serviceSet) *middlewareSet {
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	} else {
		log.Warn("redis not configured, login rate limiting disabled")
	}
	return &middlewareSet{
		auth:    middleware.NewAuthMiddleware(log, s.auth),
		limiter: middleware.NewRateLimiter(log, rdb, cfg.LoginRateLimit, cfg.LoginRateWindow),
	}
}
