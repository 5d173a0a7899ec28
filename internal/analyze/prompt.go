// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/craaper/pkg/types"
)

// systemPrompt sets the model's role for every assessment call.
const systemPrompt = "You are a research librarian expert in evaluating academic sources."

// assessmentPromptTmpl is the prompt sent to the model for each entry. It
// requests one object per CRAAP criterion, each with a numeric score, a
// textual explanation, and a numeric confidence, as a single JSON object.
var assessmentPromptTmpl = template.Must(template.New("assessment").Parse(`Analyze this academic source using the CRAAP test criteria. For each criterion, provide:
1. A score from 0.00 to 10.00
2. A brief explanation
3. A confidence score from 0.00 to 1.00 indicating how certain you are about your assessment

Source details:
Title: {{.Entry.Title}}
Author(s): {{.Entry.Author}}
Year: {{.Entry.Year}}
Journal: {{.Entry.Journal}}
Publisher: {{.Entry.Publisher}}
DOI: {{.Entry.DOI}}
URL: {{.Entry.URL}}

Additional content from URL: {{if .Content}}{{.Content}}{{else}}Not available{{end}}

Provide your analysis in the following JSON format:
{
    "currency": {"score": float, "explanation": string, "confidence": float},
    "relevance": {"score": float, "explanation": string, "confidence": float},
    "authority": {"score": float, "explanation": string, "confidence": float},
    "accuracy": {"score": float, "explanation": string, "confidence": float},
    "purpose": {"score": float, "explanation": string, "confidence": float}
}

Respond with only the JSON object.`))

// promptData feeds the assessment template.
type promptData struct {
	Entry   types.BibEntry
	Content string
}

// renderPrompt executes the assessment template for one entry, with the
// optional fetched page excerpt.
func renderPrompt(entry types.BibEntry, content string) (string, error) {
	var buf bytes.Buffer
	if err := assessmentPromptTmpl.Execute(&buf, promptData{Entry: entry, Content: content}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
