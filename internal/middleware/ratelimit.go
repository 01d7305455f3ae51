package middleware

import (
	"context"  // Redis calls
	"fmt"      // Key formatting
	"net/http" // HTTP status codes
	"sync"     // Guards the local limiter map
	"time"     // Window duration

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"golang.org/x/time/rate"       // Token bucket limiter
)

// RateLimitMiddleware allows limit requests per client IP and route within window,
// counted in Redis. It fails open when Redis is unavailable.
func RateLimitMiddleware(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rl:%s:%s", c.FullPath(), c.ClientIP())

		count, err := incrWindow(c.Request.Context(), rdb, key, window)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"key":   key,         // Limiter key
				"error": err.Error(), // Redis error
			}).Warn("Rate limiter unavailable")
			c.Next() // fail open
			return
		}
		if count > int64(limit) {
			tooManyRequests(c, key)
			return
		}
		c.Next()
	}
}

// incrWindow counts one request in key. INCR and EXPIRE NX run in one MULTI/EXEC,
// so every counter carries a TTL and the window starts at its first request.
func incrWindow(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count request in %s: %w", key, err)
	}
	return incr.Val(), nil
}

// maxLocalLimiters bounds the per-client map before it is reset
const maxLocalLimiters = 10000

// LocalRateLimiter is the in-process token bucket used when no Redis is configured.
// Limits are per process, so replicas each allow the full rate.
type LocalRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewLocalRateLimiter allows limit requests per window with bursts of up to limit
func NewLocalRateLimiter(limit int, window time.Duration) *LocalRateLimiter {
	return &LocalRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(window / time.Duration(limit)),
		burst:    limit,
	}
}

func (l *LocalRateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.limiters) >= maxLocalLimiters {
		l.limiters = make(map[string]*rate.Limiter) // crude eviction
	}
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// Middleware limits each client IP and route independently
func (l *LocalRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rl:%s:%s", c.FullPath(), c.ClientIP())
		if !l.limiter(key).Allow() {
			tooManyRequests(c, key)
			return
		}
		c.Next()
	}
}

func tooManyRequests(c *gin.Context, key string) {
	logrus.WithFields(logrus.Fields{
		"key":    key,              // Limiter key
		"method": c.Request.Method, // HTTP method
	}).Warn("Rate limit exceeded")
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
}
