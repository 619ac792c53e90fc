package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resume-analyzer/internal/bootstrap"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/shared/config"
)

// llmFlags override the environment configuration for one run.
type llmFlags struct {
	Provider string
	Model    string
	APIKey   string
}

type deps struct {
	Extractor resumes.TextExtractor
	NewLLM    func(ctx context.Context, f llmFlags) (llm.Client, error)
}

func defaultDeps() deps {
	return deps{Extractor: extract.PDFExtractor{}, NewLLM: newLLMFromEnv}
}

func newLLMFromEnv(ctx context.Context, f llmFlags) (llm.Client, error) {
	lookup := func(key string) (string, bool) {
		switch {
		case key == "LLM_PROVIDER" && f.Provider != "":
			return f.Provider, true
		case key == "LLM_MODEL" && f.Model != "":
			return f.Model, true
		case (key == "GEMINI_API_KEY" || key == "OPENAI_API_KEY") && f.APIKey != "":
			return f.APIKey, true
		}
		return os.LookupEnv(key)
	}
	cfg, err := config.FromLookup(lookup)
	if err != nil {
		return nil, err
	}
	client, err := bootstrap.BuildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return llm.WithRetry(llm.NewDispatcher(client, 1, cfg.LLMTimeout), cfg.LLMMaxRetries), nil
}

func newRootCmd(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "resumectl",
		Short:         "Resume analysis pipeline tools",
		Long:          "resumectl extracts text from PDF resumes, shows the analysis prompt and runs a full analysis against the configured LLM provider.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExtractCmd(d), newPromptCmd(d), newAnalyzeCmd(d))
	return root
}

func newExtractCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <resume.pdf>",
		Short: "Print the text extracted from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := extractFile(cmd.Context(), d.Extractor, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newPromptCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt <resume.pdf>",
		Short: "Print the analysis prompt built for a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := extractFile(cmd.Context(), d.Extractor, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), llm.BuildResumePrompt(text))
			return err
		},
	}
}

func newAnalyzeCmd(d deps) *cobra.Command {
	var (
		flags   llmFlags
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "analyze <resume.pdf>",
		Short: "Run the full analysis and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read resume: %w", err)
			}
			client, err := d.NewLLM(cmd.Context(), flags)
			if err != nil {
				return fmt.Errorf("llm client: %w", err)
			}
			result, err := resumes.Pipeline{Extractor: d.Extractor, LLM: client}.Run(cmd.Context(), data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if strings.TrimSpace(outPath) != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			return writeJSON(out, result)
		},
	}
	cmd.Flags().StringVar(&flags.Provider, "provider", "", "LLM provider, gemini or openai (overrides LLM_PROVIDER)")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Model identifier (overrides LLM_MODEL)")
	cmd.Flags().StringVar(&flags.APIKey, "api-key", "", "Provider API key (overrides GEMINI_API_KEY / OPENAI_API_KEY)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the JSON result to this file instead of stdout")
	return cmd
}

func extractFile(ctx context.Context, ex resumes.TextExtractor, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	text, err := ex.ExtractText(ctx, data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return text, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
