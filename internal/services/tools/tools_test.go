package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localaichat/localaichat/internal/services/search"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

type fakeSearcher struct {
	results []search.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]search.Result, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type fakeMemorySaver struct {
	err      error
	userID   uint
	content  string
	category string
}

func (f *fakeMemorySaver) Remember(_ context.Context, userID uint, content, category string) error {
	f.userID = userID
	f.content = content
	f.category = category
	return f.err
}

func call(name, args string) openai.ToolCall {
	return openai.ToolCall{
		ID:       "call_1",
		Type:     openai.ToolTypeFunction,
		Function: openai.FunctionCall{Name: name, Arguments: args},
	}
}

func TestExecuteWebSearch(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{{Title: "Go", URL: "https://go.dev", Snippet: "The Go language"}}}
	reg := NewRegistry(searcher, &fakeMemorySaver{}, noopLogger{})

	result := reg.Execute(context.Background(), 1, call("web_search", `{"query":"golang"}`))

	assert.Equal(t, []string{"golang"}, searcher.queries)
	context, ok := result["results"].(string)
	require.True(t, ok, "results must be the formatted context block")
	assert.Contains(t, context, "1. Go")
	assert.Contains(t, context, "https://go.dev")
	assert.NotContains(t, result, "error")
}

func TestExecuteWebSearchNoResults(t *testing.T) {
	reg := NewRegistry(&fakeSearcher{}, &fakeMemorySaver{}, noopLogger{})

	result := reg.Execute(context.Background(), 1, call("web_search", `{"query":"obscure"}`))

	assert.Contains(t, result["error"], "No results found")
}

func TestExecuteWebSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("network down")}
	reg := NewRegistry(searcher, &fakeMemorySaver{}, noopLogger{})

	result := reg.Execute(context.Background(), 1, call("web_search", `{"query":"golang"}`))

	assert.Contains(t, result["error"], "network down")
}

func TestExecuteCalculator(t *testing.T) {
	reg := NewRegistry(&fakeSearcher{}, &fakeMemorySaver{}, noopLogger{})

	result := reg.Execute(context.Background(), 1, call("calculator", `{"expression":"523 * 847"}`))
	assert.Equal(t, float64(443081), result["result"])

	result = reg.Execute(context.Background(), 1, call("calculator", `{"expression":"rm -rf /"}`))
	assert.Contains(t, result["error"], "Invalid expression")
}

func TestExecuteDatetime(t *testing.T) {
	fixed := time.Date(2026, time.March, 14, 15, 9, 0, 0, time.UTC)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()

	reg := NewRegistry(&fakeSearcher{}, &fakeMemorySaver{}, noopLogger{})
	result := reg.Execute(context.Background(), 1, call("get_datetime", `{}`))

	assert.Equal(t, "Saturday, March 14, 2026", result["date"])
	assert.Equal(t, "3:09 PM", result["time"])
}

func TestExecuteSaveMemory(t *testing.T) {
	saver := &fakeMemorySaver{}
	reg := NewRegistry(&fakeSearcher{}, saver, noopLogger{})

	result := reg.Execute(context.Background(), 42, call("save_memory", `{"content":"Likes espresso","category":"preference"}`))

	require.Equal(t, true, result["success"])
	assert.Contains(t, result["message"], "Likes espresso")
	assert.Equal(t, uint(42), saver.userID)
	assert.Equal(t, "Likes espresso", saver.content)
	assert.Equal(t, "preference", saver.category)
}

func TestExecuteSaveMemoryWithoutUser(t *testing.T) {
	reg := NewRegistry(&fakeSearcher{}, &fakeMemorySaver{}, noopLogger{})

	result := reg.Execute(context.Background(), 0, call("save_memory", `{"content":"Likes espresso"}`))

	assert.Equal(t, "No user logged in", result["error"])
}

func TestExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry(&fakeSearcher{}, &fakeMemorySaver{}, noopLogger{})

	result := reg.Execute(context.Background(), 1, call("launch_rockets", `{}`))

	assert.Equal(t, "Unknown tool: launch_rockets", result["error"])
}

func TestExecuteMalformedArguments(t *testing.T) {
	reg := NewRegistry(&fakeSearcher{}, &fakeMemorySaver{}, noopLogger{})

	result := reg.Execute(context.Background(), 1, call("calculator", `{not json`))

	assert.Equal(t, "Failed to parse arguments", result["error"])
}

func TestDefinitionsCoverAllTools(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 4)

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Function.Name)
		if d.Function.Name == "save_memory" {
			params, ok := d.Function.Parameters.(jsonschema.Definition)
			require.True(t, ok)
			assert.Equal(t, []string{"content"}, keysOf(params.Properties))
		}
	}
	assert.ElementsMatch(t, []string{"web_search", "calculator", "get_datetime", "save_memory"}, names)
}

func keysOf(m map[string]jsonschema.Definition) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
