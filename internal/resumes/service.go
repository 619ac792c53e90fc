package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/shared/util"
)

const (
	pdfContentType      = "application/pdf"
	archiveFallbackName = "upload.pdf"
)

// Service runs the analysis pipeline and persists its results.
type Service struct {
	Pipeline Pipeline
	Repo     Repo
	// Store archives the original upload. Nil disables archiving.
	Store object.ObjectStore
	Now   func() time.Time
	NewID func() string
}

// NewService constructs a Service.
func NewService(p Pipeline, repo Repo, store object.ObjectStore) *Service {
	return &Service{Pipeline: p, Repo: repo, Store: store}
}

// Analyze reads the upload, runs the pipeline and stores one record owned by
// ownerID. A run that has started is not cancelled by the caller going away.
// Nothing is persisted unless every stage succeeds.
func (s *Service) Analyze(ctx context.Context, r io.Reader, ownerID, fileName string) (Resume, error) {
	ownerID = strings.TrimSpace(ownerID)
	fileName = strings.TrimSpace(fileName)
	if ownerID == "" {
		return Resume{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	if fileName == "" {
		return Resume{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if r == nil {
		return Resume{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	if s.Repo == nil {
		return Resume{}, &PipelineError{Kind: KindInternal, Err: errors.New("resumes repo not configured")}
	}

	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	requestID := llm.RequestIDFromContext(ctx)
	metrics.IncAnalysisStarted()
	telemetry.Info("resume.analysis.started", map[string]any{
		"request_id": requestID,
		"owner_id":   ownerID,
		"file_name":  fileName,
	})

	res, err := s.analyze(ctx, r, ownerID, fileName)
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		kind := KindOf(err)
		metrics.IncAnalysisFailed(kind)
		telemetry.Error("resume.analysis.failed", map[string]any{
			"request_id":   requestID,
			"owner_id":     ownerID,
			"failure_kind": kind,
			"error":        err,
		})
		return Resume{}, err
	}

	metrics.IncAnalysisCompleted()
	telemetry.Info("resume.analysis.completed", map[string]any{
		"request_id":    requestID,
		"owner_id":      ownerID,
		"resume_id":     res.ID,
		"resume_rating": res.ResumeRating,
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return res, nil
}

func (s *Service) analyze(ctx context.Context, r io.Reader, ownerID, fileName string) (Resume, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Resume{}, &PipelineError{Kind: KindInternal, Err: fmt.Errorf("read upload: %w", err)}
	}

	a, err := s.Pipeline.Run(ctx, data)
	if err != nil {
		return Resume{}, err
	}

	res := Resume{
		ID:         s.newID(),
		OwnerID:    ownerID,
		FileName:   fileName,
		UploadedAt: s.now().UTC().Truncate(time.Microsecond),
		Analysis:   a,
	}

	if s.Store != nil {
		key, err := util.ObjectKey(ownerID, res.ID, fileName)
		if errors.Is(err, util.ErrInvalidFileName) {
			key, err = util.ObjectKey(ownerID, res.ID, archiveFallbackName)
		}
		if err != nil {
			return Resume{}, &PipelineError{Kind: KindStorage, Err: err}
		}
		if _, err := s.Store.Put(ctx, key, pdfContentType, bytes.NewReader(data)); err != nil {
			return Resume{}, &PipelineError{Kind: KindStorage, Err: fmt.Errorf("archive upload: %w", err)}
		}
		res.StorageKey = key
	}

	if err := s.Repo.Insert(ctx, res); err != nil {
		if res.StorageKey != "" {
			if delErr := s.Store.Delete(ctx, res.StorageKey); delErr != nil {
				telemetry.Warn("resume.archive.cleanup_failed", map[string]any{
					"resume_id":   res.ID,
					"storage_key": res.StorageKey,
					"error":       delErr,
				})
			}
		}
		return Resume{}, &PipelineError{Kind: KindStorage, Err: fmt.Errorf("insert resume: %w", err)}
	}
	return res, nil
}

// List returns the caller's resumes, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Summary, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	return s.Repo.ListByOwner(ctx, ownerID)
}

// Get returns one resume. Unknown, malformed and foreign ids all yield
// ErrNotFound so callers cannot probe for other users' records.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Resume, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Resume{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	if _, err := uuid.Parse(id); err != nil {
		return Resume{}, ErrNotFound
	}
	res, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if res.OwnerID != ownerID {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// OpenOriginal opens the archived upload behind one of the caller's resumes.
// Records stored without an archive report ErrNotFound.
func (s *Service) OpenOriginal(ctx context.Context, ownerID, id string) (io.ReadCloser, Resume, error) {
	res, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, Resume{}, err
	}
	if s.Store == nil || res.StorageKey == "" {
		return nil, Resume{}, ErrNotFound
	}
	rc, err := s.Store.Open(ctx, res.StorageKey)
	if errors.Is(err, object.ErrNotFound) {
		return nil, Resume{}, ErrNotFound
	}
	if err != nil {
		return nil, Resume{}, fmt.Errorf("open archived upload: %w", err)
	}
	return rc, res, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
