package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/localaichat/localaichat/internal/middleware"
	chatrepo "github.com/localaichat/localaichat/internal/repository/chat"
	folderrepo "github.com/localaichat/localaichat/internal/repository/folder"
	memoryrepo "github.com/localaichat/localaichat/internal/repository/memory"
	userrepo "github.com/localaichat/localaichat/internal/repository/user"
	"github.com/localaichat/localaichat/internal/services"
	"github.com/localaichat/localaichat/internal/services/chat"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service and repository errors onto HTTP
// statuses, logging the internal ones.
func writeServiceError(w http.ResponseWriter, logger services.Logger, err error) {
	var chatErr *chat.ChatError
	if errors.As(err, &chatErr) {
		switch chatErr.Type {
		case chat.ErrorTypeNotFound:
			writeError(w, http.StatusNotFound, chatErr.Message)
		case chat.ErrorTypeForbidden:
			writeError(w, http.StatusForbidden, chatErr.Message)
		case chat.ErrorTypeBusy:
			writeError(w, http.StatusConflict, chatErr.Message)
		case chat.ErrorTypeValidation:
			writeError(w, http.StatusBadRequest, chatErr.Message)
		default:
			logger.Error("Request failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	switch {
	case errors.Is(err, userrepo.ErrUserNotFound),
		errors.Is(err, chatrepo.ErrChatNotFound),
		errors.Is(err, folderrepo.ErrFolderNotFound),
		errors.Is(err, memoryrepo.ErrMemoryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrFolderForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireUser returns the active user or responds 401.
func requireUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no active user")
		return 0, false
	}
	return userID, true
}

// pathID extracts a numeric {id} path variable.
func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
