package resumes

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
)

const (
	defaultMaxUploadBytes = 10 << 20 // 10MB
	multipartOverhead     = 64 << 10

	msgOnlyPDF        = "Only PDF files are accepted."
	msgAnalysisFailed = "Failed to parse or save the resume."
	msgNotFound       = "Resume not found."
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches resume routes. uploadMiddleware runs before the
// upload handler only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, uploadMiddleware ...gin.HandlerFunc) {
	upload := append(append([]gin.HandlerFunc{}, uploadMiddleware...), h.upload)
	rg.POST("/resumes", upload...)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.GET("/resumes/:id/file", h.download)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is too large", gin.H{"maxBytes": h.MaxUploadBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if !extract.IsPDF(fileHeader.Header.Get("Content-Type")) {
		respond.Error(c, http.StatusBadRequest, "validation_error", msgOnlyPDF, nil)
		return
	}
	if fileHeader.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is too large", gin.H{"maxBytes": h.MaxUploadBytes})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	ctx := llm.WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	res, err := h.Svc.Analyze(ctx, file, userID, fileHeader.Filename)
	if err != nil {
		var pipelineErr *PipelineError
		if !errors.As(err, &pipelineErr) && errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		c.Set(middleware.FailureKindKey, KindOf(err))
		respond.Error(c, http.StatusInternalServerError, "analysis_failed", msgAnalysisFailed, nil)
		return
	}

	c.Set(middleware.ResumeIDKey, res.ID)
	respond.JSON(c, http.StatusCreated, res)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}
	respond.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)

	res, err := h.Svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", msgNotFound, nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch resume", nil)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)

	rc, res, err := h.Svc.OpenOriginal(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", msgNotFound, nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch resume file", nil)
		return
	}
	defer rc.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.DataFromReader(http.StatusOK, -1, pdfContentType, rc, map[string]string{"Content-Disposition": disposition})
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}
