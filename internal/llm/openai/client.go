package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/telemetry"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Options configures the OpenAI client.
type Options struct {
	APIKey string
	Model  string
	// ConvertSystemMessage sends the system instruction inside the user
	// message instead of as a separate system message.
	ConvertSystemMessage bool
	BaseURL              string
	Timeout              time.Duration
}

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	convert    bool
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:     opts.APIKey,
		model:      opts.Model,
		convert:    opts.ConvertSystemMessage,
		endpoint:   base + "/chat/completions",
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the prompt as a JSON-mode chat completion at temperature 0.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var messages []chatMessage
	if c.convert {
		messages = []chatMessage{{Role: "user", Content: llm.MergeSystemInstruction(prompt)}}
	} else {
		messages = []chatMessage{
			{Role: "system", Content: llm.SystemInstruction},
			{Role: "user", Content: prompt},
		}
	}
	temp := float32(0)
	payload, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    &temp,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", fmt.Errorf("openai request: %w: %v", llm.ErrProviderTimeout, err)
		}
		return "", fmt.Errorf("openai request: %w: %v", llm.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai read body: %w: %v", llm.ErrProviderUnavailable, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 300 {
			return "", fmt.Errorf("openai http status %d: %w", resp.StatusCode, llm.ErrProviderUnavailable)
		}
		return "", fmt.Errorf("openai response parse: %w: %v", llm.ErrMalformedResponse, err)
	}
	if resp.StatusCode >= 300 || parsed.Error != nil {
		msg := ""
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("openai http status %d: %w: %s", resp.StatusCode, llm.ErrProviderUnavailable, msg)
	}
	if parsed.Usage != nil {
		telemetry.Debug("llm.usage", map[string]any{
			"provider":          "openai",
			"model":             c.model,
			"prompt_tokens":     parsed.Usage.PromptTokens,
			"completion_tokens": parsed.Usage.CompletionTokens,
			"request_id":        llm.RequestIDFromContext(ctx),
		})
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices: %w", llm.ErrMalformedResponse)
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content: %w", llm.ErrMalformedResponse)
	}
	return content, nil
}

var _ llm.Client = (*Client)(nil)
