package gemini

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("cards").Parse(promptSource))

// promptData is passed to the prompt template.
type promptData struct {
	SourceText string
	Count      int
}

func renderPrompt(sourceText string, count int) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{SourceText: sourceText, Count: count}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
