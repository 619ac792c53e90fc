package resumes

import (
	"context"
	"errors"
	"fmt"

	"resume-analyzer/internal/analysis"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/telemetry"
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Pipeline runs extraction, prompting, the model call, parsing and coercion.
// It has no side effects beyond the model call.
type Pipeline struct {
	Extractor TextExtractor
	LLM       llm.Client
}

// Run analyses one document. Failures are *PipelineError values.
func (p Pipeline) Run(ctx context.Context, data []byte) (analysis.Analysis, error) {
	if p.Extractor == nil || p.LLM == nil {
		return analysis.Analysis{}, &PipelineError{Kind: KindInternal, Err: errors.New("pipeline not configured")}
	}

	text, err := p.Extractor.ExtractText(ctx, data)
	if err != nil {
		kind := KindCorruptDocument
		if errors.Is(err, extract.ErrEmptyDocument) {
			kind = KindEmptyDocument
		}
		return analysis.Analysis{}, &PipelineError{Kind: kind, Err: err}
	}

	raw, err := p.LLM.Complete(ctx, llm.BuildResumePrompt(text))
	if err != nil {
		return analysis.Analysis{}, &PipelineError{Kind: llmKind(err), Err: err}
	}

	fields, err := analysis.Parse(raw)
	if err != nil {
		return analysis.Analysis{}, &PipelineError{Kind: KindUnparsableAnalysis, Err: err}
	}
	if issues := analysis.CheckShape(fields); len(issues) > 0 {
		telemetry.Warn("resume.analysis.shape", map[string]any{
			"request_id": llm.RequestIDFromContext(ctx),
			"issues":     issueStrings(issues),
		})
	}
	return analysis.Coerce(fields), nil
}

func llmKind(err error) string {
	switch {
	case errors.Is(err, llm.ErrProviderTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindProviderTimeout
	case errors.Is(err, llm.ErrMalformedResponse):
		return KindMalformedResponse
	default:
		return KindProviderUnavailable
	}
}

func issueStrings(issues []analysis.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.String())
	}
	return out
}

// Validate reports whether a pipeline has every collaborator set.
func (p Pipeline) Validate() error {
	if p.Extractor == nil {
		return fmt.Errorf("%w: extractor is required", ErrInvalidInput)
	}
	if p.LLM == nil {
		return fmt.Errorf("%w: llm client is required", ErrInvalidInput)
	}
	return nil
}
