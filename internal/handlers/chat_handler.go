package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/localaichat/localaichat/internal/domain"
	"github.com/localaichat/localaichat/internal/services"
	"github.com/localaichat/localaichat/internal/services/chat"
)

// ChatHandler serves conversation CRUD and message sending, including
// the streaming variant over server-sent events.
type ChatHandler struct {
	chats    *chat.Service
	settings *services.SettingsService
	logger   services.Logger
}

func NewChatHandler(chats *chat.Service, settings *services.SettingsService, logger services.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, settings: settings, logger: logger}
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chats, err := h.chats.ListChats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	created, err := h.chats.CreateChat(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type messageView struct {
	domain.Message
	HTML string `json:"html,omitempty"`
}

// Messages returns a chat's transcript. With ?format=html assistant
// messages carry a pre-rendered HTML field.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	messages, err := h.chats.GetMessages(r.Context(), userID, chatID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if r.URL.Query().Get("format") != "html" {
		writeJSON(w, http.StatusOK, messages)
		return
	}

	views := make([]messageView, 0, len(messages))
	for _, msg := range messages {
		view := messageView{Message: msg}
		if msg.Role == domain.RoleAssistant {
			view.HTML = renderMarkdown(msg.Content)
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

// Update renames a chat or moves it between folders. A folderId of null
// moves the chat to unsorted; an absent folderId leaves it alone.
func (h *ChatHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Title    *string          `json:"title"`
		FolderID *json.RawMessage `json:"folderId"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if body.Title != nil {
		if _, err := h.chats.RenameChat(r.Context(), userID, chatID, *body.Title); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
	}
	if body.FolderID != nil {
		var folderID *uint
		if string(*body.FolderID) != "null" {
			var id uint
			if err := json.Unmarshal(*body.FolderID, &id); err != nil {
				writeError(w, http.StatusBadRequest, "invalid folderId")
				return
			}
			folderID = &id
		}
		if err := h.chats.MoveChatToFolder(r.Context(), userID, chatID, folderID); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.chats.DeleteChat(r.Context(), userID, chatID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ClearMessages empties a chat without removing it from the sidebar.
func (h *ChatHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.chats.ClearMessages(r.Context(), userID, chatID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Send runs one message turn. Streaming responses go out as server-sent
// events; otherwise the full result is returned as JSON.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		Content string `json:"content"`
		Image   string `json:"image"`
		Model   string `json:"model"`
		Stream  *bool  `json:"stream"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	clientSettings, err := h.settings.GetClientSettings(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	model := body.Model
	if model == "" {
		model = clientSettings.Model
	}
	stream := clientSettings.StreamingEnabled
	if body.Stream != nil {
		stream = *body.Stream
	}

	input := chat.SendMessageInput{
		UserID:       userID,
		ChatID:       chatID,
		Text:         body.Content,
		Image:        body.Image,
		Model:        model,
		SystemPrompt: clientSettings.SystemPrompt,
		Stream:       stream,
	}

	if !stream {
		result, err := h.chats.SendMessage(r.Context(), input)
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		if result == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	h.sendStreaming(w, r, input)
}

func (h *ChatHandler) sendStreaming(w http.ResponseWriter, r *http.Request, input chat.SendMessageInput) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	input.OnDelta = func(delta string) {
		payload, _ := json.Marshal(map[string]string{"content": delta})
		fmt.Fprintf(w, "event: delta\ndata: %s\n\n", payload)
		flusher.Flush()
	}

	result, err := h.chats.SendMessage(r.Context(), input)
	if err != nil {
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
		flusher.Flush()
		return
	}
	if result == nil {
		fmt.Fprint(w, "event: done\ndata: {}\n\n")
		flusher.Flush()
		return
	}

	payload, _ := json.Marshal(result)
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", payload)
	flusher.Flush()
}
