package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

// TokenFromRequest reads the session token. A Bearer Authorization header
// wins over the token cookie.
func TokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	tok, err := c.Cookie(helpers.TokenCookie)
	if err != nil {
		return ""
	}
	return tok
}
