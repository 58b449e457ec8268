package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "token"

// LogoutSentinel replaces the token cookie on logout.
const (
	LogoutSentinel    = "none"
	LogoutSentinelTTL = 10 * time.Second
)

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// SetToken stores the session token as an httpOnly cookie until exp.
func (m *Manager) SetToken(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

// SetSentinel overwrites the session cookie with a short-lived placeholder.
func (m *Manager) SetSentinel(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, LogoutSentinel, int(LogoutSentinelTTL.Seconds()), "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
