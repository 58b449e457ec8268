package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
	"github.com/oksasatya/bootcamp-directory/pkg/validation"
)

// fail hands err to the terminal error stage.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// bindJSON decodes and validates the body, reporting failures itself.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, validation.ToError(err))
		return false
	}
	return true
}

// actor is the identity resolved by Protect.
func actor(c *gin.Context) (*entity.User, bool) {
	u := middleware.CurrentUser(c)
	if u == nil {
		fail(c, apperror.Unauthorized("Authorization Denied"))
		return nil, false
	}
	return u, true
}

// listFrom runs a filtered, paginated list built from the query string.
func listFrom(c *gin.Context, list func(query.Spec) (query.Result, error)) {
	spec, err := query.Parse(c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}
	res, err := list(spec)
	if err != nil {
		fail(c, err)
		return
	}
	response.List(c, len(res.Items), res.Pagination(), res.Items)
}

// baseURL is the scheme and host the request arrived on.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
