package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestRecorder receives one observation per served request.
type RequestRecorder interface {
	RecordRequest(method, path string, status int, duration time.Duration)
}

// Metrics records request counts and latency by route template, so ids
// in the URL do not explode label cardinality.
func Metrics(rec RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		rec.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
