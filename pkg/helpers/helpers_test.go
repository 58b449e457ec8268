package helpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	tok, exp, err := m.Generate("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	other := NewJWTManager("other", time.Hour)
	foreign, _, err := other.Generate("user-1")
	require.NoError(t, err)
	_, err = m.Parse(foreign)
	assert.Error(t, err, "wrong secret")

	expired := NewJWTManager("secret", -time.Minute)
	old, _, err := expired.Generate("user-1")
	require.NoError(t, err)
	_, err = m.Parse(old)
	assert.Error(t, err, "expired")

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1"})
	s, err := noExp.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Parse(s)
	assert.Error(t, err, "missing exp")

	_, err = m.Parse("none")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.True(t, CompareHashAndPassword(hash, "123456"))
	assert.False(t, CompareHashAndPassword(hash, "1234567"))
}

func TestTokens(t *testing.T) {
	a, err := RandomToken(20)
	require.NoError(t, err)
	b, err := RandomToken(20)
	require.NoError(t, err)
	assert.Len(t, a, 40)
	assert.NotEqual(t, a, b)

	assert.Equal(t, TokenDigest("k", a), TokenDigest("k", a))
	assert.NotEqual(t, TokenDigest("k", a), TokenDigest("other", a))
	assert.NotContains(t, TokenDigest("k", a), a)

	assert.Equal(t, KeyRevokedToken("x"), KeyRevokedToken("x"))
	assert.Contains(t, KeyRevokedToken("x"), "auth:revoked:")
}

func TestCookieManager(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NewCookie("", true).SetToken(c, "abc", time.Now().Add(time.Hour))
	res := http.Response{Header: w.Header()}
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, TokenCookie, cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	NewCookie("", false).SetSentinel(c)
	res = http.Response{Header: w.Header()}
	cookies = res.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, LogoutSentinel, cookies[0].Value)
	assert.Equal(t, 10, cookies[0].MaxAge)
	assert.False(t, cookies[0].Secure)
}

func TestPingES(t *testing.T) {
	cases := []struct {
		status int
		exists bool
		fails  bool
	}{
		{http.StatusOK, true, false},
		{http.StatusNotFound, false, false},
		{http.StatusUnauthorized, false, true},
	}
	for _, tc := range cases {
		var method, path string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			w.Header().Set("X-Elastic-Product", "Elasticsearch")
			w.WriteHeader(tc.status)
		}))
		es, err := NewESClient([]string{srv.URL}, "", "")
		require.NoError(t, err)

		exists, err := PingES(context.Background(), es, "bootcamps")
		srv.Close()

		assert.Equal(t, http.MethodHead, method)
		assert.Equal(t, "/bootcamps", path)
		assert.Equal(t, tc.exists, exists, "status %d", tc.status)
		assert.Equal(t, tc.fails, err != nil, "status %d", tc.status)
	}
}
