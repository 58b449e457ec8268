package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

// Deps are shared by every module.
type Deps struct {
	Redis   *redis.Client // nil falls back to process-local limits
	Protect gin.HandlerFunc
	Bypass  middleware.AllowFunc // skips route limits; nil counts every request
}

func (d Deps) perIP(max int) gin.HandlerFunc {
	return middleware.RateLimit(d.Redis, max, time.Minute, middleware.KeyByIPAndPath(), d.Bypass)
}

func (d Deps) perUser(max int) gin.HandlerFunc {
	return middleware.RateLimit(d.Redis, max, time.Minute, middleware.KeyByUserID(), d.Bypass)
}
