package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

type CourseModule struct {
	Deps
	Handler *handlers.CourseHandler
}

func NewCourseModule(d Deps, h *handlers.CourseHandler) *CourseModule {
	return &CourseModule{Deps: d, Handler: h}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	publisher := middleware.Authorize(entity.RolePublisher, entity.RoleAdmin)

	c := rg.Group("/courses")
	c.GET("", m.Handler.List)
	c.GET("/:id", m.Handler.Get)
	c.PUT("/:id", m.Protect, publisher, m.Handler.Update)
	c.DELETE("/:id", m.Protect, publisher, m.Handler.Delete)
}
