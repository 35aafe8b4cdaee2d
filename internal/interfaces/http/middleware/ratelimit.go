// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"time"

	"mana-universe-api/internal/infrastructure/persistence/redis"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// RequestsPerSecond 每秒请求数
	RequestsPerSecond int
	// Burst 突发容量，叠加在每秒请求数之上
	Burst int
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 限流中间件，按用户（未认证时按客户端 IP）和路由计数
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 100
	}
	limit := cfg.RequestsPerSecond
	if cfg.Burst > 0 {
		limit += cfg.Burst
	}

	return func(c *gin.Context) {
		subject := GetUserIDFromGin(c)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		key := redis.BuildRateLimitKey(subject, c.Request.Method+" "+endpoint)

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, time.Second)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", "1")
			abortWithError(c, apperrors.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
