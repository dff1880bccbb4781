package chat

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/localaichat/localaichat/internal/domain"
	chatrepo "github.com/localaichat/localaichat/internal/repository/chat"
	messagerepo "github.com/localaichat/localaichat/internal/repository/message"
	"github.com/localaichat/localaichat/internal/services/ai"
	"github.com/localaichat/localaichat/internal/services/search"
)

// memoryLister supplies the user's memories for the system prompt.
// Satisfied by the memory service.
type memoryLister interface {
	List(ctx context.Context, userID uint) ([]domain.Memory, error)
}

// searcher runs an optional web search before generation. Satisfied by
// the search service.
type searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// Service owns conversations: chat CRUD, the per-user session state, and
// the full send-message flow against the inference backend.
type Service struct {
	chats    chatrepo.ChatRepository
	messages messagerepo.MessageRepository
	memories memoryLister
	provider ai.CompletionProvider
	executor toolExecutor
	searcher searcher
	sessions *SessionManager
	config   Config
	logger   Logger
}

func NewService(
	chats chatrepo.ChatRepository,
	messages messagerepo.MessageRepository,
	memories memoryLister,
	provider ai.CompletionProvider,
	executor toolExecutor,
	searcher searcher,
	config Config,
	logger Logger,
) *Service {
	if config.MaxToolRounds <= 0 {
		config.MaxToolRounds = DefaultConfig().MaxToolRounds
	}
	return &Service{
		chats:    chats,
		messages: messages,
		memories: memories,
		provider: provider,
		executor: executor,
		searcher: searcher,
		sessions: NewSessionManager(),
		config:   config,
		logger:   logger,
	}
}

// Session returns the per-user session state.
func (s *Service) Session(userID uint) *Session {
	return s.sessions.Get(userID)
}

// DropSession discards a user's session state.
func (s *Service) DropSession(userID uint) {
	s.sessions.Drop(userID)
}

// CreateChat starts an empty conversation for the user.
func (s *Service) CreateChat(ctx context.Context, userID uint) (*domain.Chat, error) {
	chat := &domain.Chat{UserID: userID, Title: domain.DefaultChatTitle}
	created, err := s.chats.Create(ctx, chat)
	if err != nil {
		return nil, NewInternalError("create_chat", "could not create chat", err)
	}
	s.logger.Info("Chat created", "chat_id", created.ID, "user_id", userID)
	return created, nil
}

// ListChats returns the user's chats, most recently active first.
func (s *Service) ListChats(ctx context.Context, userID uint) ([]domain.Chat, error) {
	chats, err := s.chats.FindByUserID(ctx, userID)
	if err != nil {
		return nil, NewInternalError("list_chats", "could not list chats", err)
	}
	return chats, nil
}

// GetMessages returns a chat's messages in order, enforcing ownership.
func (s *Service) GetMessages(ctx context.Context, userID, chatID uint) ([]domain.Message, error) {
	if _, err := s.loadOwnedChat(ctx, "get_messages", userID, chatID); err != nil {
		return nil, err
	}
	messages, err := s.messages.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, NewInternalError("get_messages", "could not load messages", err)
	}
	return messages, nil
}

// RenameChat sets a chat's title.
func (s *Service) RenameChat(ctx context.Context, userID, chatID uint, title string) (*domain.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("rename_chat", "title is required")
	}
	chat, err := s.loadOwnedChat(ctx, "rename_chat", userID, chatID)
	if err != nil {
		return nil, err
	}
	chat.Title = title
	if err := s.chats.Update(ctx, chat); err != nil {
		return nil, NewInternalError("rename_chat", "could not update chat", err)
	}
	return chat, nil
}

// MoveChatToFolder assigns a chat to a folder, or to none when folderID
// is nil.
func (s *Service) MoveChatToFolder(ctx context.Context, userID, chatID uint, folderID *uint) error {
	if _, err := s.loadOwnedChat(ctx, "move_chat", userID, chatID); err != nil {
		return err
	}
	if err := s.chats.MoveToFolder(ctx, chatID, folderID); err != nil {
		return NewInternalError("move_chat", "could not move chat", err)
	}
	return nil
}

// DeleteChat removes a chat and its messages.
func (s *Service) DeleteChat(ctx context.Context, userID, chatID uint) error {
	if _, err := s.loadOwnedChat(ctx, "delete_chat", userID, chatID); err != nil {
		return err
	}
	if err := s.messages.DeleteByChatID(ctx, chatID); err != nil {
		return NewInternalError("delete_chat", "could not delete messages", err)
	}
	if err := s.chats.Delete(ctx, chatID); err != nil {
		return NewInternalError("delete_chat", "could not delete chat", err)
	}
	s.logger.Info("Chat deleted", "chat_id", chatID, "user_id", userID)
	return nil
}

// ClearMessages wipes a chat's history but keeps the chat itself.
func (s *Service) ClearMessages(ctx context.Context, userID, chatID uint) error {
	if _, err := s.loadOwnedChat(ctx, "clear_messages", userID, chatID); err != nil {
		return err
	}
	if err := s.messages.DeleteByChatID(ctx, chatID); err != nil {
		return NewInternalError("clear_messages", "could not delete messages", err)
	}
	s.logger.Info("Chat history cleared", "chat_id", chatID, "user_id", userID)
	return nil
}

// SendMessageInput is one user turn.
type SendMessageInput struct {
	UserID       uint
	ChatID       uint
	Text         string
	Image        string // data URL, optional
	Model        string
	SystemPrompt string
	Stream       bool
	OnDelta      func(string)
}

// SendMessageResult reports what was persisted for the turn.
type SendMessageResult struct {
	UserMessage      *domain.Message `json:"userMessage"`
	AssistantMessage *domain.Message `json:"assistantMessage"`
	ChatTitle        string          `json:"chatTitle"`
}

// SendMessage runs one full turn: persist the user message, gather
// context, generate a reply, and persist it. Generation failures do not
// fail the call; they are stored as a visible error reply so the
// conversation stays consistent.
func (s *Service) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && input.Image == "" {
		return nil, nil
	}
	if input.Model == "" {
		return nil, NewValidationError("send_message", "model is required")
	}

	session := s.sessions.Get(input.UserID)
	if !session.TryAcquire() {
		return nil, NewBusyError("send_message")
	}
	defer session.Release()

	chat, err := s.loadOwnedChat(ctx, "send_message", input.UserID, input.ChatID)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.messages.Create(ctx, &domain.Message{
		ChatID:  chat.ID,
		Role:    domain.RoleUser,
		Content: text,
		Image:   input.Image,
	})
	if err != nil {
		return nil, NewInternalError("send_message", "could not store message", err)
	}

	if chat.Title == domain.DefaultChatTitle && text != "" {
		chat.Title = domain.DeriveTitle(text)
		if err := s.chats.Update(ctx, chat); err != nil {
			s.logger.Warn("Could not update chat title", "chat_id", chat.ID, "error", err)
		}
	}

	searchContext := s.maybeSearch(ctx, session, text)

	history, err := s.messages.FindByChatID(ctx, chat.ID)
	if err != nil {
		return nil, NewInternalError("send_message", "could not load history", err)
	}

	memories, err := s.memories.List(ctx, input.UserID)
	if err != nil {
		s.logger.Warn("Could not load memories", "user_id", input.UserID, "error", err)
	}

	apiMessages := BuildMessages(PromptContext{
		SystemPrompt:  input.SystemPrompt,
		Memories:      memories,
		Documents:     session.Documents(),
		SearchContext: searchContext,
		History:       history,
	})

	content := s.generate(ctx, input, apiMessages)

	assistantMsg, err := s.messages.Create(ctx, &domain.Message{
		ChatID:  chat.ID,
		Role:    domain.RoleAssistant,
		Content: content,
	})
	if err != nil {
		return nil, NewInternalError("send_message", "could not store reply", err)
	}
	if err := s.chats.TouchUpdatedAt(ctx, chat.ID); err != nil {
		s.logger.Warn("Could not touch chat timestamp", "chat_id", chat.ID, "error", err)
	}

	return &SendMessageResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		ChatTitle:        chat.Title,
	}, nil
}

// maybeSearch runs a web search when the session has it enabled. Search
// failures only cost the context block, never the whole turn.
func (s *Service) maybeSearch(ctx context.Context, session *Session, text string) string {
	if !session.SearchEnabled() || text == "" {
		return ""
	}
	results, err := s.searcher.Search(ctx, text)
	if err != nil {
		s.logger.Warn("Web search failed, continuing without results", "error", err)
		return ""
	}
	return search.BuildContext(text, results)
}

// generate produces the assistant text. Streaming requests skip tools;
// everything else goes through the tool loop. Failures come back as a
// visible error message.
func (s *Service) generate(ctx context.Context, input SendMessageInput, apiMessages []openai.ChatCompletionMessage) string {
	if input.Stream {
		content, err := s.provider.StreamCompletion(ctx, input.Model, apiMessages, input.OnDelta)
		if err != nil {
			s.logger.Error("Streaming generation failed", "chat_id", input.ChatID, "error", err)
			return errorReply(err)
		}
		if content == "" {
			return noResponseFallback
		}
		return content
	}

	loop := &toolLoop{
		provider:  s.provider,
		executor:  s.executor,
		maxRounds: s.config.MaxToolRounds,
		logger:    s.logger,
	}
	content, err := loop.run(ctx, input.UserID, input.Model, apiMessages)
	if err != nil {
		s.logger.Error("Generation failed", "chat_id", input.ChatID, "error", err)
		return errorReply(err)
	}
	return content
}

// errorReply renders a provider failure as the assistant message the
// user sees.
func errorReply(err error) string {
	var aiErr *ai.AIError
	if errors.As(err, &aiErr) {
		switch aiErr.Type {
		case ai.ErrorTypeConnection:
			return "⚠️ Error: Could not connect to the inference server. Make sure it is running and the API endpoint in settings is correct."
		case ai.ErrorTypeTimeout:
			return "⚠️ Error: The request timed out. The model may be too large for this machine."
		}
	}
	return "⚠️ Error: " + err.Error()
}

func (s *Service) loadOwnedChat(ctx context.Context, operation string, userID, chatID uint) (*domain.Chat, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, chatrepo.ErrChatNotFound) {
			return nil, NewNotFoundError(operation, "chat not found")
		}
		return nil, NewInternalError(operation, "could not load chat", err)
	}
	if chat.UserID != userID {
		return nil, NewForbiddenError(operation, "chat belongs to another user")
	}
	return chat, nil
}
