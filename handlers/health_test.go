package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthAlwaysOK(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health("full", func() error { return nil }))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OK"`)
	assert.Contains(t, w.Body.String(), `"timestamp"`)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
}

func TestHealthStays200WhenDatabaseDown(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health("full", func() error { return errors.New("connection refused") }))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"unreachable"`)
	assert.Contains(t, w.Body.String(), `"timestamp"`)
}
