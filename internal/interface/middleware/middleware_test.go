package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type stubAuth map[string]*entity.User

func (s stubAuth) Authenticate(_ context.Context, token string) (*entity.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("denied")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func protectedEngine(auth Authenticator, roles ...entity.Role) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(nil))
	g := r.Group("/", Protect(auth))
	if len(roles) > 0 {
		g.Use(Authorize(roles...))
	}
	g.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})
	return r
}

func TestProtect(t *testing.T) {
	auth := stubAuth{
		"header-token": {ID: "from-header", Role: entity.RoleUser},
		"cookie-token": {ID: "from-cookie", Role: entity.RoleUser},
	}
	r := protectedEngine(auth)

	cases := []struct {
		name   string
		header string
		cookie string
		status int
		id     string
	}{
		{name: "no credentials", status: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer header-token", status: http.StatusOK, id: "from-header"},
		{name: "cookie", cookie: "cookie-token", status: http.StatusOK, id: "from-cookie"},
		{name: "bearer wins over cookie", header: "Bearer header-token", cookie: "cookie-token", status: http.StatusOK, id: "from-header"},
		{name: "unknown token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "logout sentinel", cookie: helpers.LogoutSentinel, status: http.StatusUnauthorized},
		{name: "non bearer scheme", header: "Basic header-token", status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: helpers.TokenCookie, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)
			body := decode(t, w)
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.id, body["id"])
			} else {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "Authorization Denied", body["error"])
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	auth := stubAuth{
		"user":      {ID: "1", Role: entity.RoleUser},
		"publisher": {ID: "2", Role: entity.RolePublisher},
	}
	r := protectedEngine(auth, entity.RolePublisher, entity.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer user")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "User role user is not authorized to access this route", decode(t, w)["error"])

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer publisher")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorize_WithoutProtectDenies(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(nil))
	r.GET("/admin", Authorize(entity.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestErrorHandler_Normalises(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"app error", apperror.NotFound("Bootcamp not found with id of %s", "x"), http.StatusNotFound, "Bootcamp not found with id of x"},
		{"duplicate", &pgconn.PgError{Code: "23505"}, http.StatusBadRequest, "Duplicate field value entered"},
		{"bad id", &pgconn.PgError{Code: "22P02"}, http.StatusNotFound, "Resource not found"},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, "Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler(nil))
			r.GET("/", func(c *gin.Context) { _ = c.Error(tc.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, tc.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.msg, body["error"])
		})
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(nil))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", decode(t, w)["error"])
}

func TestRateLimit_LocalFallback(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, 2, time.Minute, KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// another client has its own window
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.10:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLocalLimiter_FixedWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	l := newLocalLimiter(3, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, _ := l.allow("k")
		assert.True(t, ok, "hit %d", i+1)
	}
	ok, left := l.allow("k")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, left)

	// no refill inside the window
	now = start.Add(59 * time.Second)
	ok, left = l.allow("k")
	assert.False(t, ok)
	assert.Equal(t, time.Second, left)

	now = start.Add(time.Minute)
	for i := 0; i < 3; i++ {
		ok, _ = l.allow("k")
		assert.True(t, ok, "new window hit %d", i+1)
	}
	ok, _ = l.allow("k")
	assert.False(t, ok)

	ok, _ = l.allow("other")
	assert.True(t, ok)
}

func TestRateLimit_AllowBypass(t *testing.T) {
	r := gin.New()
	r.Use(RealIP(), RateLimit(nil, 1, time.Minute, KeyByIP(), AnyAllow(AllowPrivateIP(), AllowPathPrefix("/health"))))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestKeyByUserID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(CtxRealIP, "203.0.113.9")

	assert.Equal(t, "rl:user:anon:ip:203.0.113.9", KeyByUserID()(c))
	c.Set(CtxUserID, "u1")
	assert.Equal(t, "rl:user:u1", KeyByUserID()(c))
}

func TestRealIP(t *testing.T) {
	var got string
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { got = c.GetString(CtxRealIP) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "198.51.100.7", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.8")
	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "198.51.100.8", got)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(true))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")
}
