package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/container"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func limitedEngine(env string) *gin.Engine {
	cfg := &config.Config{
		AppName:             "DevCamper",
		Env:                 env,
		JWTSecret:           "test-secret",
		JWTExpire:           time.Hour,
		CORSAllowedOrigins:  "*",
		RateLimitMax:        1,
		RateLimitWindow:     time.Minute,
		DebugMetricsEnabled: true,
	}
	return NewEngine(container.New(cfg, helpers.NewLogger("test", "test")))
}

func statuses(r *gin.Engine, path, remoteAddr string, n int) []int {
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		out = append(out, w.Code)
	}
	return out
}

func TestGlobalLimit_CountsPublicClients(t *testing.T) {
	r := limitedEngine("development")
	codes := statuses(r, "/api/v1/auth/me", "203.0.113.9:1234", 2)
	assert.NotEqual(t, http.StatusTooManyRequests, codes[0])
	assert.Equal(t, http.StatusTooManyRequests, codes[1])
}

func TestGlobalLimit_SkipsDebugEndpoints(t *testing.T) {
	r := limitedEngine("production")
	for _, code := range statuses(r, "/api/v1/debug/vars", "203.0.113.9:1234", 3) {
		assert.Equal(t, http.StatusOK, code)
	}
}

func TestGlobalLimit_PrivateClientsOnlyOutsideProduction(t *testing.T) {
	for _, code := range statuses(limitedEngine("development"), "/api/v1/auth/me", "10.0.0.5:1234", 3) {
		assert.NotEqual(t, http.StatusTooManyRequests, code)
	}

	codes := statuses(limitedEngine("production"), "/api/v1/auth/me", "10.0.0.5:1234", 2)
	assert.Equal(t, http.StatusTooManyRequests, codes[1])
}
