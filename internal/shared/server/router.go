package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/users"
)

const (
	welcomeMessage    = "Welcome to the Resume Analyzer API!"
	uploadLimitGroup  = "UPLOAD"
	defaultLimitGroup = "DEFAULT"
)

// RouterDeps carries the handlers and collaborators the router mounts.
type RouterDeps struct {
	Config        config.Config
	Tokens        middleware.TokenVerifier
	Health        *health.Service
	UserHandler   *users.Handler
	ResumeHandler *resumes.Handler
	// UploadLimiter is shared across requests; nil creates a fresh one.
	UploadLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"message": welcomeMessage})
	})
	r.GET("/health", func(c *gin.Context) {
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	r.GET("/metrics", metrics.Handler())

	public := r.Group("/")
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPublicRoutes(public)
	}

	protected := r.Group("/", middleware.Auth(deps.Tokens))
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(protected)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(protected, uploadRateLimit(deps))
	}

	return r
}

// uploadRateLimit bounds analyses per caller. A zero rate disables the limit.
func uploadRateLimit(deps RouterDeps) gin.HandlerFunc {
	rules := map[string]middleware.RateLimitRule{}
	if deps.Config.UploadRatePerMinute > 0 {
		burst := deps.Config.UploadBurst
		if burst <= 0 {
			burst = 1
		}
		rules[uploadLimitGroup] = middleware.PerMinute(deps.Config.UploadRatePerMinute, burst)
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		Rules:        rules,
		DefaultGroup: defaultLimitGroup,
		GroupFor:     func(*gin.Context) string { return uploadLimitGroup },
		Limiter:      deps.UploadLimiter,
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
