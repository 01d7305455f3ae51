package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginKey = "rl:/login:10.0.0.1"

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func limitedRouter(rdb *redis.Client, limit int, window time.Duration) *gin.Engine {
	r := gin.New()
	r.POST("/login", RateLimitMiddleware(rdb, limit, window), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func postFrom(r http.Handler, remote string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitMiddleware_Limit(t *testing.T) {
	_, rdb := newRedis(t)
	r := limitedRouter(rdb, 2, time.Minute)

	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(r, "10.0.0.1:1002"))
	// Each client IP has its own counter
	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.2:1000"))
}

func TestRateLimitMiddleware_SetsTTLOnFirstRequest(t *testing.T) {
	mr, rdb := newRedis(t)
	r := limitedRouter(rdb, 5, time.Minute)

	postFrom(r, "10.0.0.1:1000")
	assert.Equal(t, time.Minute, mr.TTL(loginKey))

	// Later requests in the window do not push the expiry out
	mr.FastForward(20 * time.Second)
	postFrom(r, "10.0.0.1:1000")
	assert.Equal(t, 40*time.Second, mr.TTL(loginKey))
}

func TestRateLimitMiddleware_WindowResets(t *testing.T) {
	mr, rdb := newRedis(t)
	r := limitedRouter(rdb, 1, time.Minute)

	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(r, "10.0.0.1:1000"))

	mr.FastForward(time.Minute)

	assert.False(t, mr.Exists(loginKey))
	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1:1000"))
}

func TestRateLimitMiddleware_CounterWithoutTTLGetsOne(t *testing.T) {
	mr, rdb := newRedis(t)
	r := limitedRouter(rdb, 1, time.Minute)
	// A counter left behind without an expiry, e.g. by an older deployment
	require.NoError(t, mr.Set(loginKey, "7"))

	assert.Equal(t, http.StatusTooManyRequests, postFrom(r, "10.0.0.1:1000"))
	assert.Equal(t, time.Minute, mr.TTL(loginKey))

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1:1000"))
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	r := limitedRouter(rdb, 1, time.Minute)
	mr.Close()

	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1:1000"))
}
