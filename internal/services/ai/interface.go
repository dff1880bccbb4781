package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionProvider abstracts the inference backend so the chat service
// can be tested against a fake.
type CompletionProvider interface {
	// Completion performs a single non-streaming chat completion. The
	// returned message may carry tool calls.
	Completion(ctx context.Context, model string, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)

	// StreamCompletion streams a completion, invoking onDelta for each
	// content fragment, and returns the assembled text.
	StreamCompletion(ctx context.Context, model string, messages []openai.ChatCompletionMessage, onDelta func(string)) (string, error)

	// ListModels returns the model identifiers the backend serves.
	ListModels(ctx context.Context) ([]string, error)

	// SetBaseURL points the provider at a different endpoint at runtime.
	SetBaseURL(baseURL string)
}
