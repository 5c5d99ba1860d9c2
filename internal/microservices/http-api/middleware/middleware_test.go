package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubTokens map[string]*service.Claims

func (s stubTokens) ValidateToken(token string) (*service.Claims, error) {
	if token == "expired" {
		return nil, service.ErrExpiredToken
	}
	claims, ok := s[token]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return claims, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(stubTokens{"good": {UserID: 7, Role: "admin", Type: "access"}}))
	r.GET("/whoami", func(c *gin.Context) {
		p := Principal(c)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "admin": p.IsAdmin()})
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"anonymous passes through", "", http.StatusOK, `{"admin":false,"user_id":0}`},
		{"valid token sets principal", "Bearer good", http.StatusOK, `{"admin":true,"user_id":7}`},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, `{"error":"invalid authorization header format"}`},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, `{"error":"invalid authorization header format"}`},
		{"bad token", "Bearer nope", http.StatusUnauthorized, `{"error":"invalid token"}`},
		{"expired token", "Bearer expired", http.StatusUnauthorized, `{"error":"token has expired"}`},
	}

	r := newAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestPrincipal_WithoutClaimsIsAnonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, policy.Anonymous(), Principal(c))

	c.Set(ClaimsKey, "not claims")
	assert.Equal(t, policy.Anonymous(), Principal(c))
}

func TestRateLimiter_LimitsOnlyMutatingRequests(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ads", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/ads", func(c *gin.Context) { c.Status(http.StatusCreated) })

	do := func(method, ip string) int {
		req := httptest.NewRequest(method, "/ads", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "10.0.0.1"))
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "10.0.0.1"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "10.0.0.2"))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(http.MethodGet, "10.0.0.1"))
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.limiter("10.0.0.1")
	now = now.Add(5 * time.Minute)
	rl.limiter("10.0.0.2")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, rl.Sweep())
	_, stale := rl.visitors["10.0.0.1"]
	_, fresh := rl.visitors["10.0.0.2"]
	assert.False(t, stale)
	assert.True(t, fresh)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "path=/missing")
	assert.Contains(t, out, "status=404")
}
