package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ctxWithQuery(rawQuery string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParsePaginationDefaults(t *testing.T) {
	page, limit := parsePagination(ctxWithQuery(""))
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}

func TestParsePaginationValues(t *testing.T) {
	page, limit := parsePagination(ctxWithQuery("page=3&limit=25"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)
}

func TestParsePaginationClampsAndIgnoresGarbage(t *testing.T) {
	page, limit := parsePagination(ctxWithQuery("page=-1&limit=10000"))
	assert.Equal(t, 1, page)
	assert.Equal(t, maxLimit, limit)

	page, limit = parsePagination(ctxWithQuery("page=abc&limit=xyz"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}

func TestParseDateRange(t *testing.T) {
	from, to := parseDateRange(ctxWithQuery("startDate=2026-03-01&endDate=2026-03-31"))
	require.NotNil(t, from)
	require.NotNil(t, to)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	// A bare end date covers the whole day.
	assert.Equal(t, 23, to.Hour())
	assert.Equal(t, 31, to.Day())
}

func TestParseDateRangeRFC3339(t *testing.T) {
	from, to := parseDateRange(ctxWithQuery("startDate=2026-03-01T08:00:00Z&endDate=2026-03-01T17:30:00Z"))
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, 8, from.Hour())
	assert.Equal(t, 17, to.Hour())
}

func TestParseDateRangeIgnoresInvalid(t *testing.T) {
	from, to := parseDateRange(ctxWithQuery("startDate=not-a-date"))
	assert.Nil(t, from)
	assert.Nil(t, to)
}
