package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholderReportsProviderUnavailable(t *testing.T) {
	out, err := Placeholder.Complete(context.Background(), "prompt")
	assert.Empty(t, out)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "no provider configured")
}
