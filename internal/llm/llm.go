package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client sends a fully built prompt to a model and returns its raw text reply.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrProviderUnavailable covers network, auth, quota and 5xx failures.
	ErrProviderUnavailable = errors.New("llm provider unavailable")
	// ErrMalformedResponse means the provider answered without usable text.
	ErrMalformedResponse = errors.New("llm response has no text content")
	// ErrProviderTimeout means the bounded wait for a reply was exceeded.
	ErrProviderTimeout = errors.New("llm provider timeout")
)

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Placeholder stands in for a provider when none is configured. Every call
// fails with ErrProviderUnavailable.
var Placeholder Client = ClientFunc(func(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: no provider configured", ErrProviderUnavailable)
})
