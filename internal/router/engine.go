package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/container"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

// NewEngine assembles the global middleware chain and every API module.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.Recovery(c.Logger))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.RequestLogger(c.Logger))
	}
	if cfg.DebugMetricsEnabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))

	origins := cfg.CORSOrigins()
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// credentials cannot be combined with a literal wildcard
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.ErrorHandler(c.Logger))

	reg := NewRegistry(r)
	// debug endpoints carry their own per-IP limit
	globalBypass := middleware.AnyAllow(middleware.AllowPathPrefix(APIPrefix+"/debug"), limitBypass(cfg))
	reg.Use(middleware.RateLimit(c.Redis, cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIP(), globalBypass))
	InitModules(reg, c)
	reg.RegisterAll()

	r.NoRoute(middleware.NotFound())
	return r
}

// limitBypass lets loopback and private-network clients skip rate limits
// outside production, so local tooling and seed scripts are not throttled.
func limitBypass(cfg *config.Config) middleware.AllowFunc {
	if cfg.IsProduction() {
		return nil
	}
	return middleware.AllowPrivateIP()
}
