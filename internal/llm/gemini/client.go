package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/telemetry"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Options configures the Gemini client.
type Options struct {
	APIKey string
	Model  string
	// ConvertSystemMessage folds the system instruction into the user turn
	// instead of sending a native system instruction.
	ConvertSystemMessage bool
	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL    string
	HTTPClient *http.Client
}

// Client implements llm.Client using google.golang.org/genai.
type Client struct {
	models  *genai.Models
	model   string
	convert bool
}

// NewClient constructs a Gemini API client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{models: client.Models, model: model, convert: opts.ConvertSystemMessage}, nil
}

// Complete sends the prompt at temperature 0 and returns the reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	}
	if c.convert {
		prompt = llm.MergeSystemInstruction(prompt)
	} else {
		config.SystemInstruction = genai.NewContentFromText(llm.SystemInstruction, genai.RoleUser)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", classify(ctx, err)
	}

	if resp.UsageMetadata != nil {
		telemetry.Debug("llm.usage", map[string]any{
			"provider":          "gemini",
			"model":             c.model,
			"prompt_tokens":     resp.UsageMetadata.PromptTokenCount,
			"completion_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"request_id":        llm.RequestIDFromContext(ctx),
		})
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		reason := ""
		if len(resp.Candidates) > 0 {
			reason = string(resp.Candidates[0].FinishReason)
		} else if resp.PromptFeedback != nil {
			reason = string(resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini %s: %w (reason=%q)", c.model, llm.ErrMalformedResponse, reason)
	}
	return text, nil
}

func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	if code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout {
		return fmt.Errorf("gemini status %d: %w: %v", code, llm.ErrProviderTimeout, err)
	}
	return fmt.Errorf("gemini status %d: %w: %v", code, llm.ErrProviderUnavailable, err)
}

var _ llm.Client = (*Client)(nil)
