package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

// UserModule wires the admin-only account routes under /users.
type UserModule struct {
	Deps
	Handler *handlers.UserHandler
}

func NewUserModule(d Deps, h *handlers.UserHandler) *UserModule {
	return &UserModule{Deps: d, Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	u := rg.Group("/users")
	u.Use(m.Protect, middleware.Authorize(entity.RoleAdmin), m.perUser(120))
	{
		u.GET("", m.Handler.List)
		u.POST("", m.Handler.Create)
		u.GET("/:id", m.Handler.Get)
		u.PUT("/:id", m.Handler.Update)
		u.DELETE("/:id", m.Handler.Delete)
	}
}
