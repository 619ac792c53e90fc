package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/auth"
	"resume-analyzer/internal/shared/server/respond"
)

const userIDKey = "userId"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// Auth validates bearer tokens and stores the caller identity in context.
// Requests without a valid token are rejected with 401 and a
// WWW-Authenticate challenge.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	respond.Error(c, http.StatusUnauthorized, "unauthorized", "Could not validate credentials", nil)
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
