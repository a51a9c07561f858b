package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"chat_inbox_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/api/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	return r
}

func TestJWTAuthDisabledPassesThrough(t *testing.T) {
	jwt.Init("", 5)
	w := httptest.NewRecorder()
	newEngine(JWTAuth()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth(t *testing.T) {
	jwt.Init("secret", 5)
	defer jwt.Init("", 5)
	token, err := jwt.GenerateAccessToken("agent-7")
	require.NoError(t, err)
	r := newEngine(JWTAuth())

	tests := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{name: "missing", status: http.StatusUnauthorized},
		{name: "malformed", header: "Token " + token, status: http.StatusUnauthorized},
		{name: "invalid", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "header", header: "Bearer " + token, status: http.StatusOK, body: "agent-7"},
		{name: "query", query: "?token=" + token, status: http.StatusOK, body: "agent-7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/ping"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestTlsHandlerRedirects(t *testing.T) {
	r := newEngine(TlsHandler("example.com", 443, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example.com/api/ping", nil))
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://example.com:443/api/ping", w.Header().Get("Location"))
}
