package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/resume_analysis.txt
var resumeAnalysisTemplate string

const resumeTextPlaceholder = "{{resume_text}}"

// SystemInstruction is sent as a system message by providers that keep
// system and user roles apart.
const SystemInstruction = "You extract structured data from resumes. Reply with a single JSON object and nothing else."

// BuildResumePrompt embeds the extracted resume text into the analysis
// template. It is pure: the same text always yields the same prompt.
func BuildResumePrompt(resumeText string) string {
	return strings.Replace(resumeAnalysisTemplate, resumeTextPlaceholder, resumeText, 1)
}

// MergeSystemInstruction folds the system instruction into the user prompt
// for providers or models that do not accept a system role.
func MergeSystemInstruction(prompt string) string {
	return SystemInstruction + "\n\n" + prompt
}
