package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/auth"
	"resume-analyzer/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokenService("test-secret", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	h := NewHandler(newTestService(), tokens)
	r := gin.New()
	h.RegisterPublicRoutes(r.Group("/"))
	h.RegisterRoutes(r.Group("/", middleware.Auth(tokens)))
	return r
}

func register(router http.Handler, email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func login(router http.Handler, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterLoginMe(t *testing.T) {
	router := newTestRouter(t)

	resp := register(router, "ada@example.com", "secret")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	if created["email"] != "ada@example.com" || created["id"] == "" {
		t.Fatalf("unexpected body: %v", created)
	}
	if _, ok := created["hashed_password"]; ok {
		t.Fatalf("password hash leaked: %v", created)
	}

	dup := register(router, "ADA@example.com", "secret")
	if dup.Code != http.StatusBadRequest || !strings.Contains(dup.Body.String(), "Email already registered") {
		t.Fatalf("expected duplicate rejection, got %d: %s", dup.Code, dup.Body.String())
	}

	tok := login(router, "ada@example.com", "secret")
	if tok.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", tok.Code, tok.Body.String())
	}
	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(tok.Body.Bytes(), &token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if token.AccessToken == "" || token.TokenType != "bearer" {
		t.Fatalf("unexpected token response: %+v", token)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	me := httptest.NewRecorder()
	router.ServeHTTP(me, req)
	if me.Code != http.StatusOK || !strings.Contains(me.Body.String(), "ada@example.com") {
		t.Fatalf("unexpected /me response %d: %s", me.Code, me.Body.String())
	}
}

func TestTokenRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)
	register(router, "ada@example.com", "secret")

	resp := login(router, "ada@example.com", "wrong")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if got := resp.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Fatalf("expected WWW-Authenticate Bearer, got %q", got)
	}
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	if bad := register(router, "nope", "secret"); bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", bad.Code)
	}
}

func TestMeRequiresToken(t *testing.T) {
	router := newTestRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
