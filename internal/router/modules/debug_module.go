package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type DebugModule struct {
	Deps
}

func NewDebugModule(d Deps) *DebugModule { return &DebugModule{Deps: d} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoints, rate-limited per IP
	rl := m.perIP(120)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	rg.GET("/debug/metrics", rl, gin.WrapH(promhttp.Handler()))
}
