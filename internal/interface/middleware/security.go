package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets conservative headers for a JSON API. HSTS is sent only
// when hsts is on and the request arrived over HTTPS.
func SecurityHeaders(hsts bool) gin.HandlerFunc {
	maxAge := strconv.Itoa(int((180 * 24 * time.Hour).Seconds()))
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-XSS-Protection", "0")
		h.Set("X-Permitted-Cross-Domain-Policies", "none")
		if hsts && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", "max-age="+maxAge+"; includeSubDomains")
		}
		c.Next()
	}
}

func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
