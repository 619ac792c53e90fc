package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/telemetry"
)

// Context keys handlers set so the access log can carry domain fields.
const (
	ResumeIDKey    = "resumeId"
	FailureKindKey = "failureKind"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		userID, _ := c.Get(userIDKey)
		resumeID, _ := c.Get(ResumeIDKey)
		failureKind, _ := c.Get(FailureKindKey)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     userID,
			"resume_id":   resumeID,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if failureKind != nil {
			fields["failure_kind"] = failureKind
		}
		telemetry.Info("request.complete", fields)
	}
}
