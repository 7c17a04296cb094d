package middleware

import (
	"time"

	"github.com/vervelak/lastwar-alliance-manager/internal/logger"
	"github.com/vervelak/lastwar-alliance-manager/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLog tags each request with an id, logs it and counts it.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RecordHTTP(c.Request.Method, route, status)
		logger.Info("http.request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"ms", time.Since(start).Milliseconds(),
		)
	}
}

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
