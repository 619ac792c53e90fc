package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"resume-analyzer/internal/shared/metrics"
)

// Dispatcher bounds the number of in-flight provider calls and the time a
// caller waits for a reply. Time spent queued for a slot counts against the
// timeout.
type Dispatcher struct {
	client  Client
	slots   *semaphore.Weighted
	timeout time.Duration
}

// NewDispatcher wraps client. maxConcurrent < 1 is treated as 1 and a
// non-positive timeout disables the deadline.
func NewDispatcher(client Client, maxConcurrent int, timeout time.Duration) *Dispatcher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Dispatcher{
		client:  client,
		slots:   semaphore.NewWeighted(int64(maxConcurrent)),
		timeout: timeout,
	}
}

// Complete acquires a slot and calls the wrapped client. Deadline expiry while
// waiting or calling yields ErrProviderTimeout.
func (d *Dispatcher) Complete(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := d.slots.Acquire(callCtx, 1); err != nil {
		metrics.ObserveLLMCall("queue_timeout", elapsedMs(start))
		return "", d.mapErr(ctx, callCtx, err)
	}

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	// The slot is held until the provider call really returns, even when the
	// caller has already given up on it.
	go func() {
		defer d.slots.Release(1)
		out, err := d.client.Complete(callCtx, prompt)
		done <- result{out: out, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			res.err = d.mapErr(ctx, callCtx, res.err)
		}
		metrics.ObserveLLMCall(outcome(res.err), elapsedMs(start))
		return res.out, res.err
	case <-callCtx.Done():
		err := d.mapErr(ctx, callCtx, callCtx.Err())
		metrics.ObserveLLMCall(outcome(err), elapsedMs(start))
		return "", err
	}
}

func (d *Dispatcher) mapErr(parent, callCtx context.Context, err error) error {
	if errors.Is(err, ErrProviderTimeout) {
		return err
	}
	// Only our own deadline maps to a timeout. Caller cancellation passes through.
	if parent.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrProviderTimeout, d.timeout)
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProviderTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrProviderUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
