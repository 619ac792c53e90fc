package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func requestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})
	return router
}

func TestRequestIDKeepsIncomingHeader(t *testing.T) {
	router := requestIDRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Body.String() != "req-123" || resp.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("expected incoming id to be kept, got body=%q header=%q", resp.Body.String(), resp.Header().Get("X-Request-Id"))
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if id := resp.Header().Get("X-Request-Id"); len(id) != 32 || resp.Body.String() != id {
		t.Fatalf("expected generated 32-char id, got %q", id)
	}
}

func TestRequestIDReplacesUnsafeHeader(t *testing.T) {
	router := requestIDRouter()

	for _, incoming := range []string{"has space", "tab\tid", strings.Repeat("x", maxRequestIDLen+1)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", incoming)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		id := resp.Header().Get("X-Request-Id")
		if id == incoming || len(id) != 32 {
			t.Fatalf("expected %q to be replaced, got %q", incoming, id)
		}
	}
}
