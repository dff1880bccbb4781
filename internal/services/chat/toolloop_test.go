package chat

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localaichat/localaichat/internal/services/ai"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

// scriptedProvider returns canned responses in order and records the
// requests it received.
type scriptedProvider struct {
	responses []openai.ChatCompletionMessage
	errs      []error
	calls     int
	seenTools [][]openai.Tool
	seenMsgs  [][]openai.ChatCompletionMessage
}

func (p *scriptedProvider) Completion(_ context.Context, _ string, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	i := p.calls
	p.calls++
	p.seenTools = append(p.seenTools, tools)
	p.seenMsgs = append(p.seenMsgs, messages)
	if i < len(p.errs) && p.errs[i] != nil {
		return openai.ChatCompletionMessage{}, p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}, nil
}

func (p *scriptedProvider) StreamCompletion(_ context.Context, _ string, _ []openai.ChatCompletionMessage, onDelta func(string)) (string, error) {
	return "", nil
}

func (p *scriptedProvider) ListModels(context.Context) ([]string, error) { return nil, nil }
func (p *scriptedProvider) SetBaseURL(string)                            {}

type recordingExecutor struct {
	calls   []openai.ToolCall
	payload map[string]any
}

func (e *recordingExecutor) Execute(_ context.Context, _ uint, call openai.ToolCall) map[string]any {
	e.calls = append(e.calls, call)
	if e.payload != nil {
		return e.payload
	}
	return map[string]any{"result": "ok"}
}

func toolCallMsg(id, name, args string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{{
			ID:       id,
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: name, Arguments: args},
		}},
	}
}

func textMsg(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}
}

func newLoop(p *scriptedProvider, e *recordingExecutor, maxRounds int) *toolLoop {
	return &toolLoop{provider: p, executor: e, maxRounds: maxRounds, logger: noopLogger{}}
}

func TestToolLoopPassesThroughPlainAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []openai.ChatCompletionMessage{textMsg("42")}}
	executor := &recordingExecutor{}

	content, err := newLoop(provider, executor, 5).run(context.Background(), 1, "llama3", nil)

	require.NoError(t, err)
	assert.Equal(t, "42", content)
	assert.Empty(t, executor.calls)
	require.Len(t, provider.seenTools, 1)
	assert.NotEmpty(t, provider.seenTools[0], "first round should advertise tools")
}

func TestToolLoopExecutesToolThenAnswers(t *testing.T) {
	provider := &scriptedProvider{responses: []openai.ChatCompletionMessage{
		toolCallMsg("call_1", "calculator", `{"expression":"2+2"}`),
		textMsg("The answer is 4."),
	}}
	executor := &recordingExecutor{payload: map[string]any{"result": "4"}}

	content, err := newLoop(provider, executor, 5).run(context.Background(), 1, "llama3", nil)

	require.NoError(t, err)
	assert.Equal(t, "The answer is 4.", content)
	require.Len(t, executor.calls, 1)
	assert.Equal(t, "calculator", executor.calls[0].Function.Name)

	// Second request must carry the assistant tool-call message and the
	// paired tool result.
	second := provider.seenMsgs[1]
	require.Len(t, second, 2)
	assert.Equal(t, "call_1", second[0].ToolCalls[0].ID)
	assert.Equal(t, openai.ChatMessageRoleTool, second[1].Role)
	assert.Equal(t, "call_1", second[1].ToolCallID)
	assert.Contains(t, second[1].Content, `"result":"4"`)
}

func TestToolLoopStopsAtRoundCap(t *testing.T) {
	// The model keeps asking for tools forever; the loop must give up
	// after the cap and fall back to the placeholder.
	responses := make([]openai.ChatCompletionMessage, 0, 8)
	for i := 0; i < 8; i++ {
		responses = append(responses, toolCallMsg("call_x", "get_datetime", `{}`))
	}

	provider := &scriptedProvider{responses: responses}
	executor := &recordingExecutor{}

	content, err := newLoop(provider, executor, 5).run(context.Background(), 1, "llama3", nil)

	require.NoError(t, err)
	assert.Equal(t, noResponseFallback, content)
	assert.Equal(t, 5, provider.calls)

	// The capped round must not execute tools the model will never hear
	// back about, so only the four resubmitted rounds ran.
	assert.Len(t, executor.calls, 4)

	// Every execution's result made it into the final request.
	final := provider.seenMsgs[len(provider.seenMsgs)-1]
	toolMsgs := 0
	for _, m := range final {
		if m.Role == openai.ChatMessageRoleTool {
			toolMsgs++
		}
	}
	assert.Equal(t, 4, toolMsgs)
}

func TestToolLoopEmptyAnswerFallback(t *testing.T) {
	provider := &scriptedProvider{responses: []openai.ChatCompletionMessage{textMsg("")}}

	content, err := newLoop(provider, &recordingExecutor{}, 5).run(context.Background(), 1, "llama3", nil)

	require.NoError(t, err)
	assert.Equal(t, noResponseFallback, content)
}

func TestToolLoopPropagatesProviderError(t *testing.T) {
	provider := &scriptedProvider{errs: []error{ai.NewConnectionError("completion", "down", nil)}}

	_, err := newLoop(provider, &recordingExecutor{}, 5).run(context.Background(), 1, "llama3", nil)

	require.Error(t, err)
	var aiErr *ai.AIError
	assert.ErrorAs(t, err, &aiErr)
}

func TestToolLoopMultipleCallsInOneRound(t *testing.T) {
	multi := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{
			{ID: "call_a", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "get_datetime", Arguments: `{}`}},
			{ID: "call_b", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "calculator", Arguments: `{"expression":"1+1"}`}},
		},
	}
	provider := &scriptedProvider{responses: []openai.ChatCompletionMessage{multi, textMsg("both done")}}
	executor := &recordingExecutor{}

	content, err := newLoop(provider, executor, 5).run(context.Background(), 1, "llama3", nil)

	require.NoError(t, err)
	assert.Equal(t, "both done", content)
	require.Len(t, executor.calls, 2)

	second := provider.seenMsgs[1]
	require.Len(t, second, 3)
	assert.Equal(t, "call_a", second[1].ToolCallID)
	assert.Equal(t, "call_b", second[2].ToolCallID)
}
