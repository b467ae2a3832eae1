// Package summarizer produces short article summaries via an LLM.
package summarizer

import (
	"context"
	"fmt"
)

const promptTemplate = `Your task is to summarize the content of the article in 3 sentences.
The original content of the article is:
%s

Keep the answer simple and concise. Focus on the main points of the article, and avoid unnecessary details.`

// Summarizer produces a summary for article content.
type Summarizer interface {
	// Summarize returns a short summary of the given article content.
	// An empty result means no summary was produced.
	Summarize(ctx context.Context, content string) (string, error)
}

// BuildPrompt renders the summarization prompt for the given content.
func BuildPrompt(content string) string {
	return fmt.Sprintf(promptTemplate, content)
}

// NoOp is a summarizer that produces nothing. Used when summarization is
// disabled.
type NoOp struct{}

// NewNoOp creates a summarizer that always returns an empty summary.
func NewNoOp() NoOp {
	return NoOp{}
}

// Summarize returns an empty summary.
func (NoOp) Summarize(_ context.Context, _ string) (string, error) {
	return "", nil
}
