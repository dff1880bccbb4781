package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible completion endpoint,
// which for a local install is usually Ollama's /v1 API.
type OpenAIProvider struct {
	mu     sync.RWMutex
	client *openai.Client
	config Config
}

func NewOpenAIProvider(config Config) *OpenAIProvider {
	p := &OpenAIProvider{config: config}
	p.client = newClient(config)
	return p
}

func newClient(config Config) *openai.Client {
	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	clientConfig.HTTPClient = &http.Client{Timeout: config.RequestTimeout}
	return openai.NewClientWithConfig(clientConfig)
}

// SetBaseURL rebuilds the client against a new endpoint. Called when the
// user changes the API endpoint in settings.
func (p *OpenAIProvider) SetBaseURL(baseURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if strings.TrimSuffix(baseURL, "/") == strings.TrimSuffix(p.config.BaseURL, "/") {
		return
	}
	p.config.BaseURL = baseURL
	p.client = newClient(p.config)
}

func (p *OpenAIProvider) getClient() *openai.Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

func (p *OpenAIProvider) Completion(ctx context.Context, model string, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Tools:    tools,
	}
	if len(tools) > 0 {
		req.ToolChoice = "auto"
	}

	resp, err := p.getClient().CreateChatCompletion(ctx, req)
	if err != nil && len(tools) > 0 && isBadRequest(err) {
		// Some local models reject requests that carry a tools block.
		// Retry once without tools so the chat still gets an answer.
		req.Tools = nil
		req.ToolChoice = nil
		resp, err = p.getClient().CreateChatCompletion(ctx, req)
	}
	if err != nil {
		return openai.ChatCompletionMessage{}, classifyError("completion", err)
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, NewAPIError("completion", "response contained no choices", nil)
	}
	return resp.Choices[0].Message, nil
}

func (p *OpenAIProvider) StreamCompletion(ctx context.Context, model string, messages []openai.ChatCompletionMessage, onDelta func(string)) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
	}

	stream, err := p.getClient().CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", classifyError("stream", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), NewStreamError("stream", "stream interrupted", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	return full.String(), nil
}

func (p *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	list, err := p.getClient().ListModels(ctx)
	if err != nil {
		return nil, classifyError("list_models", err)
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}

func isBadRequest(err error) bool {
	var apiErr *openai.APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusBadRequest
}

func classifyError(operation string, err error) *AIError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewAPIError(operation, apiErr.Message, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &AIError{Type: ErrorTypeTimeout, Operation: operation, Message: "request timed out", Cause: err}
	}
	return NewConnectionError(operation, "could not reach inference server", err)
}
