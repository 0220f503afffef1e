package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SuwethaV/bookreview/pkg/tracing"
)

const (
	RequestIDHeader = "X-Request-ID"

	slowRequestThreshold = 3 * time.Second
)

// Logger writes one structured entry per request. An incoming X-Request-ID
// is reused, otherwise a new one is generated and echoed back.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. request id
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// 2. entry
		status := c.Writer.Status()
		entry := logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    latency.String(),
			"client_ip":  c.ClientIP(),
		})
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			entry = entry.WithField("trace_id", traceID)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case latency > slowRequestThreshold:
			entry.Warn("slow request")
		case status >= 400:
			entry.Info("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}
