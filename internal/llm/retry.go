package llm

import (
	"context"
	"errors"
	"net"
	"time"

	"resume-analyzer/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

type retryingClient struct {
	base       Client
	maxRetries int
	baseDelay  time.Duration
}

// WithRetry retries transient failures up to maxRetries times with a linear
// backoff. With maxRetries <= 0 the base client is returned unchanged.
func WithRetry(base Client, maxRetries int) Client {
	if base == nil || maxRetries <= 0 {
		return base
	}
	return retryingClient{base: base, maxRetries: maxRetries, baseDelay: retryBaseDelay}
}

func (r retryingClient) Complete(ctx context.Context, prompt string) (string, error) {
	var (
		out string
		err error
	)
	for attempt := 0; ; attempt++ {
		out, err = r.base.Complete(ctx, prompt)
		if err == nil || !ShouldRetry(err) || attempt >= r.maxRetries {
			return out, err
		}
		delay := r.baseDelay * time.Duration(attempt+1)
		telemetry.Warn("llm.retry", map[string]any{
			"attempt":    attempt + 1,
			"delay_ms":   delay.Milliseconds(),
			"request_id": RequestIDFromContext(ctx),
			"error":      err,
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// ShouldRetry reports whether err is worth another attempt. Malformed replies
// are not retried: the same prompt tends to produce the same shape.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrProviderTimeout) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type requestIDKey struct{}

// WithRequestID attaches the HTTP request id for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
