package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
)

// AuthModule serves /auth: session issue, profile and password recovery.
type AuthModule struct {
	Deps
	Handler *handlers.AuthHandler
	Email   *handlers.EmailHandler
}

func NewAuthModule(d Deps, h *handlers.AuthHandler, e *handlers.EmailHandler) *AuthModule {
	return &AuthModule{Deps: d, Handler: h, Email: e}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")

	// Public endpoints with IP-based rate limits
	auth.POST("/register", m.perIP(10), m.Handler.Register)
	auth.POST("/login", m.perIP(10), m.Handler.Login)
	auth.POST("/forgotpassword", m.perIP(5), m.Handler.ForgotPassword)
	auth.PUT("/resetpassword/:resettoken", m.perIP(30), m.Handler.ResetPassword)
	auth.GET("/confirmemail", m.perIP(30), m.Email.Confirm)

	protected := auth.Group("/")
	protected.Use(m.Protect, m.perUser(120))
	{
		protected.GET("/logout", m.Handler.Logout)
		protected.GET("/me", m.Handler.Me)
		protected.PUT("/updatedetails", m.Handler.UpdateDetails)
		protected.PUT("/updatepassword", m.Handler.UpdatePassword)
	}
}
