package chat

import (
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/localaichat/localaichat/internal/domain"
)

const defaultImageQuestion = "What do you see in this image?"

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// PromptContext carries everything that goes into the message list for
// one completion request.
type PromptContext struct {
	SystemPrompt  string
	Memories      []domain.Memory
	Documents     []Document
	SearchContext string
	History       []domain.Message
}

// BuildMessages assembles the API message list. The system message is
// built from the custom prompt, memories, documents, and search context;
// when all of those are empty no system message is sent at all, so bare
// conversations reach the model untouched.
func BuildMessages(pc PromptContext) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage

	if system := buildSystemPrompt(pc); system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	for _, msg := range pc.History {
		messages = append(messages, toAPIMessage(msg))
	}
	return messages
}

func buildSystemPrompt(pc PromptContext) string {
	var parts []string

	if len(pc.Memories) > 0 {
		var b strings.Builder
		b.WriteString("THINGS YOU REMEMBER ABOUT THIS USER:")
		for _, m := range pc.Memories {
			fmt.Fprintf(&b, "\n- %s", m.Content)
		}
		parts = append(parts, b.String())
	}

	if len(pc.Documents) > 0 {
		var b strings.Builder
		b.WriteString("The user has attached documents. Use their content when answering:")
		for _, doc := range pc.Documents {
			fmt.Fprintf(&b, "\n\n=== Document: %s ===\n%s", doc.Name, doc.Content)
		}
		parts = append(parts, b.String())
	}

	if pc.SearchContext != "" {
		parts = append(parts, pc.SearchContext)
	}

	if prompt := strings.TrimSpace(pc.SystemPrompt); prompt != "" {
		parts = append(parts, prompt)
	}

	if len(parts) == 0 {
		return ""
	}

	// The date rides along only when other context exists; a lone date
	// line would force a system message into every bare conversation.
	now := nowFunc()
	dateLine := fmt.Sprintf("Current date and time: %s, %s",
		now.Format("Monday, January 2, 2006"), now.Format("3:04 PM"))
	return dateLine + "\n\n" + strings.Join(parts, "\n\n")
}

// toAPIMessage converts a stored message. Messages with an image become
// multi-part content so vision models receive the image alongside the
// text.
func toAPIMessage(msg domain.Message) openai.ChatCompletionMessage {
	role := openai.ChatMessageRoleUser
	if msg.Role == domain.RoleAssistant {
		role = openai.ChatMessageRoleAssistant
	}

	if msg.Image == "" {
		return openai.ChatCompletionMessage{Role: role, Content: msg.Content}
	}

	text := msg.Content
	if strings.TrimSpace(text) == "" {
		text = defaultImageQuestion
	}
	return openai.ChatCompletionMessage{
		Role: role,
		MultiContent: []openai.ChatMessagePart{
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: msg.Image},
			},
			{
				Type: openai.ChatMessagePartTypeText,
				Text: text,
			},
		},
	}
}
