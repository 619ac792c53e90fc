package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/resumes"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) ExtractText(context.Context, []byte) (string, error) {
	return f.text, f.err
}

func run(t *testing.T, d deps, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(d)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	return path
}

func TestExtractAndPromptCommands(t *testing.T) {
	d := deps{Extractor: fakeExtractor{text: "Ada Lovelace"}}
	path := writeTempPDF(t)

	out, err := run(t, d, "extract", path)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace\n", out)

	out, err = run(t, d, "prompt", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "resume_rating")
}

func TestAnalyzeCommandPrintsRecord(t *testing.T) {
	var gotFlags llmFlags
	d := deps{
		Extractor: fakeExtractor{text: "Ada"},
		NewLLM: func(_ context.Context, f llmFlags) (llm.Client, error) {
			gotFlags = f
			return llm.ClientFunc(func(context.Context, string) (string, error) {
				return "```json\n{\"name\": \"Ada\", \"resume_rating\": 8}\n```", nil
			}), nil
		},
	}
	out, err := run(t, d, "analyze", "--provider", "openai", "--model", "gpt-4o-mini", writeTempPDF(t))
	require.NoError(t, err)
	assert.Equal(t, llmFlags{Provider: "openai", Model: "gpt-4o-mini"}, gotFlags)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Ada", decoded["name"])
	assert.Equal(t, float64(8), decoded["resume_rating"])
	assert.Contains(t, decoded, "skills")
}

func TestAnalyzeCommandWritesOutFile(t *testing.T) {
	d := deps{
		Extractor: fakeExtractor{text: "Ada"},
		NewLLM: func(context.Context, llmFlags) (llm.Client, error) {
			return llm.ClientFunc(func(context.Context, string) (string, error) { return `{"name": "Ada"}`, nil }), nil
		},
	}
	outPath := filepath.Join(t.TempDir(), "result.json")
	stdout, err := run(t, d, "analyze", "-o", outPath, writeTempPDF(t))
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Ada"`)
}

func TestAnalyzeCommandSurfacesFailureKind(t *testing.T) {
	d := deps{
		Extractor: fakeExtractor{err: extract.ErrEmptyDocument},
		NewLLM: func(context.Context, llmFlags) (llm.Client, error) {
			return llm.ClientFunc(func(context.Context, string) (string, error) {
				return "", llm.ErrProviderUnavailable
			}), nil
		},
	}
	_, err := run(t, d, "analyze", writeTempPDF(t))
	require.Error(t, err)
	assert.Equal(t, resumes.KindEmptyDocument, resumes.KindOf(err))
}

func TestCommandsRequireOneArgument(t *testing.T) {
	_, err := run(t, deps{Extractor: fakeExtractor{}}, "extract")
	assert.Error(t, err)
	_, err = run(t, deps{Extractor: fakeExtractor{}}, "extract", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestNewLLMFromEnvWithoutKeyUsesPlaceholder(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("LLM_MAX_RETRIES", "0")

	client, err := newLLMFromEnv(context.Background(), llmFlags{})
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), "prompt")
	assert.ErrorIs(t, err, llm.ErrProviderUnavailable)
}
