// README: Completer contract shared by the Gemini, OpenAI-compatible and Anthropic adapters.
package ai

import (
	"context"
)

// Completer sends one prompt to a hosted model and returns its text.
// Implementations report HTTP failures as *StatusError so callers can tell a
// rate limit from a bad key without parsing provider-specific errors.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)

	// Name is the provider label shown in status lines, e.g. "gemini".
	Name() string
}

type CompletionOptions struct {
	MaxOutputTokens int32
	Temperature     float32
}
