package tools

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/localaichat/localaichat/internal/services/search"
)

// Searcher runs a web search on behalf of a tool call.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// MemorySaver persists a memory for a user.
type MemorySaver interface {
	Remember(ctx context.Context, userID uint, content, category string) error
}

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Registry dispatches tool calls issued by the model to their
// implementations. Execution failures are reported back to the model as
// error payloads, never as Go errors, so the conversation can continue.
type Registry struct {
	searcher Searcher
	memories MemorySaver
	logger   Logger
}

func NewRegistry(searcher Searcher, memories MemorySaver, logger Logger) *Registry {
	return &Registry{searcher: searcher, memories: memories, logger: logger}
}

// Execute runs a single tool call and returns its result payload.
// userID may be zero when no user is active; tools that need a user
// report that as an error payload.
func (r *Registry) Execute(ctx context.Context, userID uint, call openai.ToolCall) map[string]any {
	var args map[string]any
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			r.logger.Warn("Tool call had unparseable arguments", "tool", call.Function.Name, "error", err)
			return map[string]any{"error": "Failed to parse arguments"}
		}
	}

	r.logger.Debug("Executing tool", "tool", call.Function.Name)

	switch Kind(call.Function.Name) {
	case KindWebSearch:
		return r.webSearch(ctx, args)
	case KindCalculator:
		return r.calculate(args)
	case KindDatetime:
		return CurrentDatetime()
	case KindSaveMemory:
		return r.saveMemory(ctx, userID, args)
	default:
		return map[string]any{"error": "Unknown tool: " + call.Function.Name}
	}
}

// webSearch hands the model the same formatted context block the search
// proxy produces, not raw result structs.
func (r *Registry) webSearch(ctx context.Context, args map[string]any) map[string]any {
	query, _ := args["query"].(string)
	if query == "" {
		return map[string]any{"error": "Missing search query"}
	}
	results, err := r.searcher.Search(ctx, query)
	if err != nil {
		r.logger.Error("Web search failed", "query", query, "error", err)
		return map[string]any{"error": "Search failed: " + err.Error()}
	}
	if len(results) == 0 {
		return map[string]any{"error": fmt.Sprintf("No results found for %q", query)}
	}
	return map[string]any{"results": search.BuildContext(query, results)}
}

func (r *Registry) calculate(args map[string]any) map[string]any {
	expression, _ := args["expression"].(string)
	if expression == "" {
		return map[string]any{"error": "Missing expression"}
	}
	value, err := Evaluate(expression)
	if err != nil {
		return map[string]any{"error": "Invalid expression: " + err.Error()}
	}
	return map[string]any{"result": value}
}

func (r *Registry) saveMemory(ctx context.Context, userID uint, args map[string]any) map[string]any {
	content, _ := args["content"].(string)
	if content == "" {
		return map[string]any{"error": "Missing memory content"}
	}
	if userID == 0 {
		return map[string]any{"error": "No user logged in"}
	}
	category, _ := args["category"].(string)
	if err := r.memories.Remember(ctx, userID, content, category); err != nil {
		r.logger.Error("Failed to save memory", "user_id", userID, "error", err)
		return map[string]any{"error": "Failed to save memory"}
	}
	return map[string]any{"success": true, "message": "Memory saved: " + content}
}

// MarshalResult encodes a tool result payload for the tool role message.
func MarshalResult(payload map[string]any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, "Failed to encode tool result")
	}
	return string(data)
}
