package port

import "context"

// AIProvider abstracts the LLM backend used for report generation, result
// analysis, and chat tool selection.
type AIProvider interface {
	// ModelName returns the identifier of the model being used.
	ModelName() string

	// Complete sends a system + user prompt and returns the full text response.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
