package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imospy/interfaces/middleware"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.Auth(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	return r
}

func call(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_ValidToken(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.StandardClaims{
		Subject:   "user-42",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	w := call(newRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", w.Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	expired := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.StandardClaims{
		Subject:   "user-42",
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.StandardClaims{Subject: "user-42"})
	noSubject := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.StandardClaims{Issuer: "x"})
	wrongAlg := sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.StandardClaims{Subject: "user-42"})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "Token abc"},
		{"empty bearer", "Bearer "},
		{"malformed", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"no subject", "Bearer " + noSubject},
		{"wrong algorithm", "Bearer " + wrongAlg},
	}
	r := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestAuth_ExpiredMessage(t *testing.T) {
	expired := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.StandardClaims{
		Subject:   "user-42",
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	})

	w := call(newRouter(), "Bearer "+expired)

	assert.JSONEq(t, `{"error":"Timing is everything"}`, w.Body.String())
}
