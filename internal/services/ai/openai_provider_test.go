package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(ts *httptest.Server) *OpenAIProvider {
	return NewOpenAIProvider(DefaultConfig(ts.URL+"/v1", "test"))
}

func userMessage(text string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: text}}
}

func TestCompletionReturnsAssistantMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: "hi there",
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer ts.Close()

	provider := newTestProvider(ts)
	msg, err := provider.Completion(context.Background(), "llama3", userMessage("hello"), nil)

	require.NoError(t, err)
	assert.Equal(t, "hi there", msg.Content)
}

func TestCompletionRetriesWithoutToolsOn400(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if len(req.Tools) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"message":"model does not support tools","type":"invalid_request_error"}}`)
			return
		}
		assert.Nil(t, req.ToolChoice, "retry must strip tool_choice along with tools")

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: "answered without tools",
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer ts.Close()

	tools := []openai.Tool{{Type: openai.ToolTypeFunction, Function: &openai.FunctionDefinition{Name: "web_search"}}}

	provider := newTestProvider(ts)
	msg, err := provider.Completion(context.Background(), "llama3", userMessage("hello"), tools)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "answered without tools", msg.Content)
}

func TestCompletionSendsToolChoiceAuto(t *testing.T) {
	var seen []interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req.ToolChoice)

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "ok"},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer ts.Close()

	tools := []openai.Tool{{Type: openai.ToolTypeFunction, Function: &openai.FunctionDefinition{Name: "web_search"}}}
	provider := newTestProvider(ts)

	_, err := provider.Completion(context.Background(), "llama3", userMessage("hello"), tools)
	require.NoError(t, err)

	_, err = provider.Completion(context.Background(), "llama3", userMessage("hello"), nil)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, "auto", seen[0], "tools present must carry tool_choice auto")
	assert.Nil(t, seen[1], "no tools, no tool_choice")
}

func TestCompletionDoesNotRetryOnServerError(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer ts.Close()

	tools := []openai.Tool{{Type: openai.ToolTypeFunction, Function: &openai.FunctionDefinition{Name: "web_search"}}}

	provider := newTestProvider(ts)
	_, err := provider.Completion(context.Background(), "llama3", userMessage("hello"), tools)

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var aiErr *AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, ErrorTypeAPI, aiErr.Type)
}

func TestStreamCompletionAssemblesDeltas(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		chunks := []string{"Hel", "lo", "!"}
		for _, c := range chunks {
			payload, _ := json.Marshal(openai.ChatCompletionStreamResponse{
				Choices: []openai.ChatCompletionStreamChoice{{
					Delta: openai.ChatCompletionStreamChoiceDelta{Content: c},
				}},
			})
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer ts.Close()

	var deltas []string
	provider := newTestProvider(ts)
	full, err := provider.StreamCompletion(context.Background(), "llama3", userMessage("hello"), func(d string) {
		deltas = append(deltas, d)
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello!", full)
	assert.Equal(t, []string{"Hel", "lo", "!"}, deltas)
}

func TestListModels(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":"llama3","object":"model"},{"id":"mistral","object":"model"}]}`)
	}))
	defer ts.Close()

	provider := newTestProvider(ts)
	models, err := provider.ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"llama3", "mistral"}, models)
}

func TestCompletionConnectionError(t *testing.T) {
	provider := NewOpenAIProvider(DefaultConfig("http://127.0.0.1:1/v1", "test"))

	_, err := provider.Completion(context.Background(), "llama3", userMessage("hello"), nil)

	require.Error(t, err)
	var aiErr *AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, ErrorTypeConnection, aiErr.Type)
}
