package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports liveness. It always answers 200 while the process is up;
// database reachability rides along in the body rather than the status.
func Health(variant string, ping func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "ok"
		if err := ping(); err != nil {
			dbStatus = "unreachable"
		}
		c.JSON(200, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"variant":   variant,
			"database":  dbStatus,
		})
	}
}
