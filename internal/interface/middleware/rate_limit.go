package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(CtxRealIP); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath limits by client IP and route
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID prefers the authenticated user and falls back to the IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetString(CtxUserID)
		if uid == "" {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + uid
	}
}

// Lua script: atomic INCR, then start the window on the first hit
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type AllowFunc func(*gin.Context) bool // return true for bypass limit

// RateLimit admits at most max requests per key per fixed window.
// - atomic redis (lua) when rdb is set
// - process-local fixed windows when rdb is nil or unreachable
// - standard headers (limit/remaining/reset)
// - optional allowlist bypass; OPTIONS is never counted
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	local := newLocalLimiter(max, window)

	return func(c *gin.Context) {
		if allow != nil && allow(c) {
			c.Next()
			return
		}
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		key := keyFn(c)
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))

		if rdb == nil {
			limitLocally(c, local, key)
			return
		}

		ctx := c.Request.Context()
		countI, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Result()
		if err != nil {
			limitLocally(c, local, key)
			return
		}
		count := toInt(countI)

		ttl, _ := rdb.PTTL(ctx, key).Result()
		resetSec := 0
		if ttl > 0 {
			resetSec = int((ttl + time.Second - 1) / time.Second)
		}

		remaining := max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > max {
			tooMany(c, resetSec)
			return
		}
		c.Next()
	}
}

func limitLocally(c *gin.Context, l *localLimiter, key string) {
	ok, left := l.allow(key)
	resetSec := int((left + time.Second - 1) / time.Second)
	c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if !ok {
		tooMany(c, resetSec)
		return
	}
	c.Next()
}

func tooMany(c *gin.Context, retryAfter int) {
	if retryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(retryAfter))
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Error("Too many requests, please try again later"))
}

// localLimiter counts hits per key in fixed windows, mirroring the redis
// script when no redis is available.
type localLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	counts  map[string]*windowCount
	lookups int
	now     func() time.Time
}

type windowCount struct {
	start time.Time
	hits  int
}

func newLocalLimiter(max int, window time.Duration) *localLimiter {
	return &localLimiter{
		max:    max,
		window: window,
		counts: make(map[string]*windowCount),
		now:    time.Now,
	}
}

// allow records a hit for key and reports whether it is within the ceiling,
// plus the time left until the key's window resets.
func (l *localLimiter) allow(key string) (bool, time.Duration) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lookups++
	if l.lookups >= 5000 {
		for k, w := range l.counts {
			if now.Sub(w.start) >= l.window {
				delete(l.counts, k)
			}
		}
		l.lookups = 0
	}

	w, ok := l.counts[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &windowCount{start: now}
		l.counts[key] = w
	}
	w.hits++
	return w.hits <= l.max, w.start.Add(l.window).Sub(now)
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
