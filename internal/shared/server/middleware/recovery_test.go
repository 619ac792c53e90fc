package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/telemetry"
)

func TestRecoveryReturns500AndLogsRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	router := gin.New()
	router.Use(RequestID(), Logging(), Recovery())
	router.GET("/resumes/:id", func(c *gin.Context) {
		c.Set(userIDKey, "user-7")
		c.Set(ResumeIDKey, c.Param("id"))
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/resumes/r-1", nil)
	req.Header.Set("X-Request-Id", "req-9")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"internal_error"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}

	var panicLine, accessLine map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		switch entry["msg"] {
		case "http.panic":
			panicLine = entry
		case "request.complete":
			accessLine = entry
		}
	}
	if panicLine == nil {
		t.Fatalf("expected panic log, got %q", buf.String())
	}
	if panicLine["request_id"] != "req-9" || panicLine["user_id"] != "user-7" || panicLine["resume_id"] != "r-1" {
		t.Fatalf("panic log missing request context: %v", panicLine)
	}
	if panicLine["route"] != "/resumes/:id" {
		t.Fatalf("unexpected route %v", panicLine["route"])
	}
	if accessLine == nil || accessLine["failure_kind"] != "internal" {
		t.Fatalf("expected access log with failure kind, got %v", accessLine)
	}
}
