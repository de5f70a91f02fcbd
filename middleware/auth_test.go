package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifetrack/lifetrack-api/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthedRouter(tm *utils.TokenManager) *gin.Engine {
	r := gin.New()
	r.GET("/me", RequireAuth(tm), func(c *gin.Context) {
		c.JSON(200, gin.H{"id": GetUserID(c), "email": GetUserEmail(c), "role": GetUserRole(c)})
	})
	return r
}

func TestRequireAuthMissingToken(t *testing.T) {
	tm := utils.NewTokenManager("a", "b", time.Minute, time.Hour)
	r := newAuthedRouter(tm)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "No token provided")
}

func TestRequireAuthBadToken(t *testing.T) {
	tm := utils.NewTokenManager("a", "b", time.Minute, time.Hour)
	r := newAuthedRouter(tm)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestRequireAuthBindsClaims(t *testing.T) {
	tm := utils.NewTokenManager("a", "b", time.Minute, time.Hour)
	token, err := tm.GenerateAccessToken("u-1", "x@y.com", "user")
	require.NoError(t, err)

	r := newAuthedRouter(tm)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u-1"`)
	assert.Contains(t, w.Body.String(), `"email":"x@y.com"`)
}

func TestRequireRoles(t *testing.T) {
	tm := utils.NewTokenManager("a", "b", time.Minute, time.Hour)
	adminToken, err := tm.GenerateAccessToken("u-1", "x@y.com", "admin")
	require.NoError(t, err)
	userToken, err := tm.GenerateAccessToken("u-2", "z@y.com", "user")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/admin", RequireAuth(tm), RequireRoles("admin"), func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, 403, w.Code)
}
