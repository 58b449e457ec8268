package router

import (
	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/container"
	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
	"github.com/oksasatya/bootcamp-directory/internal/router/modules"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

// Services are the use cases built from a container.
type Services struct {
	Auth      *application.AuthService
	Bootcamps *application.BootcampService
	Courses   *application.CourseService
	Reviews   *application.ReviewService
	Users     *application.UserService
}

func buildServices(c *container.Container) Services {
	cfg := c.Config
	return Services{
		Auth: &application.AuthService{
			Users:       c.Users,
			JWT:         c.JWT,
			Mailer:      c.Mailer,
			Revoked:     c.Revocations,
			Logger:      c.Logger,
			AppName:     cfg.AppName,
			ResetSecret: cfg.ResetTokenSecret,
			ResetTTL:    cfg.ResetTokenTTL,
		},
		Bootcamps: &application.BootcampService{
			Bootcamps: c.Bootcamps,
			Geocoder:  c.Geocoder,
			Files:     c.Files,
			Index:     c.Index,
			Logger:    c.Logger,
			MaxUpload: cfg.MaxFileUpload,
		},
		Courses: &application.CourseService{Courses: c.Courses, Bootcamps: c.Bootcamps, Logger: c.Logger},
		Reviews: &application.ReviewService{Reviews: c.Reviews, Bootcamps: c.Bootcamps, Logger: c.Logger},
		Users:   &application.UserService{Users: c.Users},
	}
}

// InitModules builds services and handlers from c and registers every
// module with r. Call it once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) Services {
	svc := buildServices(c)
	cfg := c.Config

	deps := modules.Deps{
		Redis:   c.Redis,
		Protect: middleware.Protect(svc.Auth),
		Bypass:  limitBypass(cfg),
	}

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.IsProduction())
	authH := handlers.NewAuthHandler(svc.Auth, c.Logger, cookies, cfg.CookieMaxAge())
	emailH := handlers.NewEmailHandler(svc.Auth, c.Logger)
	courseH := handlers.NewCourseHandler(svc.Courses)
	reviewH := handlers.NewReviewHandler(svc.Reviews)

	r.Add(modules.NewAuthModule(deps, authH, emailH))
	r.Add(modules.NewBootcampModule(deps, handlers.NewBootcampHandler(svc.Bootcamps), courseH, reviewH))
	r.Add(modules.NewCourseModule(deps, courseH))
	r.Add(modules.NewReviewModule(deps, reviewH))
	r.Add(modules.NewUserModule(deps, handlers.NewUserHandler(svc.Users)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(deps))
	}
	return svc
}
