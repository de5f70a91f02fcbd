package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(c *gin.Context) (page, limit int) {
	page = defaultPage
	limit = defaultLimit

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	return page, limit
}

// parseDate accepts plain dates and RFC3339 timestamps.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseDateRange reads optional startDate/endDate filters. The end date is
// pushed to end-of-day when given without a time component.
func parseDateRange(c *gin.Context) (from, to *time.Time) {
	if s := c.Query("startDate"); s != "" {
		if t, ok := parseDate(s); ok {
			from = &t
		}
	}
	if s := c.Query("endDate"); s != "" {
		if t, ok := parseDate(s); ok {
			if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			to = &t
		}
	}
	return from, to
}
