package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

type ReviewModule struct {
	Deps
	Handler *handlers.ReviewHandler
}

func NewReviewModule(d Deps, h *handlers.ReviewHandler) *ReviewModule {
	return &ReviewModule{Deps: d, Handler: h}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	reviewer := middleware.Authorize(entity.RoleUser, entity.RoleAdmin)

	r := rg.Group("/reviews")
	r.GET("", m.Handler.List)
	r.GET("/:id", m.Handler.Get)
	r.PUT("/:id", m.Protect, reviewer, m.Handler.Update)
	r.DELETE("/:id", m.Protect, reviewer, m.Handler.Delete)
}
