package middleware

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

// Context keys set by Protect.
const (
	CtxUser   = "user"
	CtxUserID = "userID"
	CtxToken  = "token"
)

// Authenticator resolves a presented token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// Protect requires a valid session token from the Authorization header or the
// token cookie and stores the resolved user in the context.
func Protect(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			abortWith(c, apperror.Unauthorized("Authorization Denied"))
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWith(c, apperror.Unauthorized("Authorization Denied"))
			return
		}
		c.Set(CtxUser, u)
		c.Set(CtxUserID, u.ID)
		c.Set(CtxToken, token)
		c.Next()
	}
}

// Authorize admits only the listed roles. It must run after Protect; without
// a resolved identity it denies with 401.
func Authorize(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			abortWith(c, apperror.Unauthorized("Authorization Denied"))
			return
		}
		if !slices.Contains(roles, u.Role) {
			abortWith(c, apperror.Forbidden("User role %s is not authorized to access this route", u.Role))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity set by Protect, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
