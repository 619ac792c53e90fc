package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 and logs it with whatever
// request context the handler had recorded so far.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"method":     c.Request.Method,
				"route":      c.FullPath(),
				"panic":      rec,
				"stack":      string(debug.Stack()),
			}
			if userID := UserIDFromContext(c); userID != "" {
				fields["user_id"] = userID
			}
			if resumeID, ok := c.Get(ResumeIDKey); ok {
				fields["resume_id"] = resumeID
			}
			c.Set(FailureKindKey, "internal")
			telemetry.Error("http.panic", fields)
			if !c.Writer.Written() {
				respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
			}
			c.Abort()
		}()
		c.Next()
	}
}
