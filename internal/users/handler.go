package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(subject, email string) (string, time.Time, error)
}

type Handler struct {
	Svc    *Service
	Tokens TokenIssuer
}

func NewHandler(svc *Service, tokens TokenIssuer) *Handler {
	return &Handler{Svc: svc, Tokens: tokens}
}

// RegisterPublicRoutes attaches registration and login.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/users/register", h.register)
	rg.POST("/token", h.token)
}

// RegisterRoutes attaches routes that need an authenticated caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusBadRequest, "email_taken", "Email already registered", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register user", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

// token implements the OAuth2 password grant form: username and password.
func (h *Handler) token(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.Svc.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Incorrect email or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to authenticate", nil)
		return
	}
	token, _, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.OK(c, gin.H{"id": user.ID, "email": user.Email})
}
