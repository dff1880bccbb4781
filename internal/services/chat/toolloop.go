package chat

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/localaichat/localaichat/internal/services/ai"
	"github.com/localaichat/localaichat/internal/services/tools"
)

const noResponseFallback = "No response received."

// toolExecutor is satisfied by tools.Registry.
type toolExecutor interface {
	Execute(ctx context.Context, userID uint, call openai.ToolCall) map[string]any
}

// toolLoop drives the completion/tool-call cycle until the model produces
// a final text answer or the round cap is hit.
type toolLoop struct {
	provider  ai.CompletionProvider
	executor  toolExecutor
	maxRounds int
	logger    Logger
}

// run returns the final assistant text. Tool execution failures are fed
// back to the model as error payloads; only provider failures abort.
func (l *toolLoop) run(ctx context.Context, userID uint, model string, messages []openai.ChatCompletionMessage) (string, error) {
	defs := tools.Definitions()
	var last openai.ChatCompletionMessage

	for round := 0; round < l.maxRounds; round++ {
		msg, err := l.provider.Completion(ctx, model, messages, defs)
		if err != nil {
			return "", err
		}
		last = msg

		if len(msg.ToolCalls) == 0 {
			break
		}

		// Every execution's results must be resubmitted. No resubmission
		// follows the final round, so stop before running the tools.
		if round == l.maxRounds-1 {
			l.logger.Warn("Tool round cap reached", "user_id", userID, "max_rounds", l.maxRounds)
			break
		}

		l.logger.Debug("Model requested tools", "round", round+1, "calls", len(msg.ToolCalls))
		messages = append(messages, msg)

		for _, call := range msg.ToolCalls {
			payload := l.executor.Execute(ctx, userID, call)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    tools.MarshalResult(payload),
				ToolCallID: call.ID,
			})
		}
	}

	// On cap exhaustion whatever content the last turn carried is final.
	if last.Content == "" {
		return noResponseFallback, nil
	}
	return last.Content, nil
}
