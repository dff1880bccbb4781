package handlers

import (
	"net/http"

	"github.com/localaichat/localaichat/internal/services"
	"github.com/localaichat/localaichat/internal/services/chat"
	"github.com/localaichat/localaichat/internal/services/document"
	"github.com/localaichat/localaichat/internal/services/search"
)

// SessionHandler serves per-user transient state: the search toggle,
// attached documents and uploads, and the search proxy.
type SessionHandler struct {
	chats     *chat.Service
	searcher  *search.Service
	documents *document.Service
	logger    services.Logger
}

func NewSessionHandler(chats *chat.Service, searcher *search.Service, documents *document.Service, logger services.Logger) *SessionHandler {
	return &SessionHandler{chats: chats, searcher: searcher, documents: documents, logger: logger}
}

type documentMeta struct {
	Name      string `json:"name"`
	Size      int    `json:"size"`
	Truncated bool   `json:"truncated"`
}

func (h *SessionHandler) sessionView(userID uint) map[string]interface{} {
	session := h.chats.Session(userID)
	docs := session.Documents()
	metas := make([]documentMeta, 0, len(docs))
	for _, doc := range docs {
		metas = append(metas, documentMeta{Name: doc.Name, Size: len(doc.Content), Truncated: doc.Truncated})
	}
	return map[string]interface{}{
		"searchEnabled": session.SearchEnabled(),
		"documents":     metas,
		"busy":          session.Busy(),
	}
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.sessionView(userID))
}

// SetSearch toggles web search for subsequent messages.
func (h *SessionHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	h.chats.Session(userID).SetSearchEnabled(body.Enabled)
	writeJSON(w, http.StatusOK, h.sessionView(userID))
}

// AttachDocument accepts a text document extracted client-side. The
// content is truncated server-side when it is too large for the prompt.
func (h *SessionHandler) AttachDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	doc := h.chats.Session(userID).AttachDocument(body.Name, body.Content)
	writeJSON(w, http.StatusCreated, documentMeta{Name: doc.Name, Size: len(doc.Content), Truncated: doc.Truncated})
}

func (h *SessionHandler) ClearDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.chats.Session(userID).ClearDocuments()
	writeJSON(w, http.StatusOK, h.sessionView(userID))
}

// Search proxies a web search for the client. Backend failures are
// reported inside the result list so the chat flow keeps moving.
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query      string `json:"query"`
		NumResults int    `json:"num_results"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	results, err := h.searcher.Search(r.Context(), body.Query)
	if err != nil {
		h.logger.Warn("Search failed", "query", body.Query, "error", err)
		results = []search.Result{{Title: "Search Error", Snippet: "Search failed: " + err.Error()}}
	}
	if body.NumResults > 0 && len(results) > body.NumResults {
		results = results[:body.NumResults]
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"context": search.BuildContext(body.Query, results),
		"query":   body.Query,
	})
}

// Upload extracts text from a multipart file upload.
func (h *SessionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	extraction := h.documents.Extract(header.Filename, file)
	writeJSON(w, http.StatusOK, extraction)
}
