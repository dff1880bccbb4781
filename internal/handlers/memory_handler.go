package handlers

import (
	"net/http"

	"github.com/localaichat/localaichat/internal/services"
	"github.com/localaichat/localaichat/internal/services/memory"
)

// MemoryHandler serves the user's saved memories.
type MemoryHandler struct {
	memories *memory.Service
	logger   services.Logger
}

func NewMemoryHandler(memories *memory.Service, logger services.Logger) *MemoryHandler {
	return &MemoryHandler{memories: memories, logger: logger}
}

func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	memories, err := h.memories.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, memories)
}

// Create saves a memory entered manually from the memory manager UI.
func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Content  string `json:"content"`
		Category string `json:"category"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if err := h.memories.Remember(r.Context(), userID, body.Content, body.Category); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	memoryID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.memories.Forget(r.Context(), memoryID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeleteAll wipes every memory for the active user.
func (h *MemoryHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.memories.ForgetAll(r.Context(), userID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
