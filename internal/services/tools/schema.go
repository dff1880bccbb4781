package tools

import (
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Kind identifies a built-in tool.
type Kind string

const (
	KindWebSearch  Kind = "web_search"
	KindCalculator Kind = "calculator"
	KindDatetime   Kind = "get_datetime"
	KindSaveMemory Kind = "save_memory"
)

// Definitions returns the function schemas advertised to the model.
func Definitions() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        string(KindWebSearch),
				Description: "Search the web for current information. Use this when the user asks about recent events, facts you are unsure about, or anything that benefits from up-to-date information.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"query": {
							Type:        jsonschema.String,
							Description: "The search query",
						},
					},
					Required: []string{"query"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        string(KindCalculator),
				Description: "Evaluate a mathematical expression. Supports arithmetic operators, parentheses, and common functions like sqrt, pow, abs, sin, cos, log.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"expression": {
							Type:        jsonschema.String,
							Description: "The mathematical expression to evaluate, e.g. \"sqrt(144) + 2^10\"",
						},
					},
					Required: []string{"expression"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        string(KindDatetime),
				Description: "Get the current date and time.",
				Parameters: jsonschema.Definition{
					Type:       jsonschema.Object,
					Properties: map[string]jsonschema.Definition{},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        string(KindSaveMemory),
				Description: "Save an important fact about the user for future conversations. Use this when the user shares personal information, preferences, or asks you to remember something.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"content": {
							Type:        jsonschema.String,
							Description: "The fact to remember, phrased as a short statement",
						},
					},
					Required: []string{"content"},
				},
			},
		},
	}
}
