package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifetrack/lifetrack-api/models"
)

// Pagination is the uniform pagination block: Current is the 1-based page,
// Total the page count, Count the number of matching records.
type Pagination struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Count   int `json:"count"`
}

// NewPagination computes Total as ceil(count/limit).
func NewPagination(page, limit, count int) *Pagination {
	total := 0
	if limit > 0 {
		total = (count + limit - 1) / limit
	}
	return &Pagination{Current: page, Total: total, Count: count}
}

// Envelope is the uniform JSON body every endpoint returns.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func Message(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: true, Message: message})
}

func Paginated(c *gin.Context, data interface{}, p *Pagination) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Pagination: p})
}

// Fail translates a service-layer error into the envelope. Errors that are
// not APIErrors reduce to a generic 500 so internals never leak.
func Fail(c *gin.Context, err error) {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, Envelope{Success: false, Error: apiErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: "Internal server error"})
}

// FailStatus writes an error envelope with an explicit status.
func FailStatus(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}
