package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

// BootcampModule serves /bootcamps and the course and review routes nested under it.
type BootcampModule struct {
	Deps
	Handler *handlers.BootcampHandler
	Courses *handlers.CourseHandler
	Reviews *handlers.ReviewHandler
}

func NewBootcampModule(d Deps, h *handlers.BootcampHandler, courses *handlers.CourseHandler, reviews *handlers.ReviewHandler) *BootcampModule {
	return &BootcampModule{Deps: d, Handler: h, Courses: courses, Reviews: reviews}
}

func (m *BootcampModule) Register(rg *gin.RouterGroup) {
	publisher := middleware.Authorize(entity.RolePublisher, entity.RoleAdmin)
	reviewer := middleware.Authorize(entity.RoleUser, entity.RoleAdmin)

	b := rg.Group("/bootcamps")
	b.GET("", m.Handler.List)
	b.GET("/search", m.perIP(60), m.Handler.Search)
	b.GET("/radius/:zipcode/:distance", m.Handler.InRadius)
	b.GET("/:id", m.Handler.Get)
	b.GET("/:id/courses", m.Courses.List)
	b.GET("/:id/reviews", m.Reviews.List)

	b.POST("", m.Protect, publisher, m.Handler.Create)
	b.PUT("/:id", m.Protect, publisher, m.Handler.Update)
	b.DELETE("/:id", m.Protect, publisher, m.Handler.Delete)
	b.PUT("/:id/photo", m.Protect, publisher, m.perUser(20), m.Handler.UploadPhoto)
	b.POST("/:id/courses", m.Protect, publisher, m.Courses.Create)
	b.POST("/:id/reviews", m.Protect, reviewer, m.Reviews.Create)
}
