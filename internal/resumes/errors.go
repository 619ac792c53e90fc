package resumes

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("resume not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateID means a record with the same id is already stored.
	ErrDuplicateID = errors.New("resume id already exists")
)

// Failure kinds recorded for a failed analysis.
const (
	KindCorruptDocument     = "corrupt_document"
	KindEmptyDocument       = "empty_document"
	KindProviderUnavailable = "provider_unavailable"
	KindProviderTimeout     = "provider_timeout"
	KindMalformedResponse   = "malformed_response"
	KindUnparsableAnalysis  = "unparsable_analysis"
	KindStorage             = "storage"
	KindInternal            = "internal"
)

// PipelineError is returned when a stage of the analysis pipeline fails.
type PipelineError struct {
	Kind string
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("resume analysis failed (%s): %v", e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind carried by err, or KindInternal.
func KindOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}
