package handlers

import (
	"net/http"

	"github.com/localaichat/localaichat/internal/middleware"
	"github.com/localaichat/localaichat/internal/services"
	"github.com/localaichat/localaichat/internal/services/chat"
)

// UserHandler serves profile management and profile switching.
type UserHandler struct {
	users        *services.UserService
	settings     *services.SettingsService
	chatService  *chat.Service
	cookieSecret string
	logger       services.Logger
}

func NewUserHandler(users *services.UserService, settings *services.SettingsService, chatService *chat.Service, cookieSecret string, logger services.Logger) *UserHandler {
	return &UserHandler{
		users:        users,
		settings:     settings,
		chatService:  chatService,
		cookieSecret: cookieSecret,
		logger:       logger,
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	user, err := h.users.CreateUser(r.Context(), body.Name, body.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Active reports the currently selected profile. The signed cookie wins;
// the persisted last-user marker is the fallback for fresh browsers.
func (h *UserHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		lastID, err := h.settings.LastUser(r.Context())
		if err != nil || lastID == 0 {
			writeJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
			return
		}
		userID = lastID
	}
	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Activate selects a profile: issues the cookie and persists the choice.
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := middleware.SetActiveUserCookie(w, user.ID, h.cookieSecret); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := h.settings.SetLastUser(r.Context(), user.ID); err != nil {
		h.logger.Warn("Could not persist last user", "user_id", user.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Deactivate returns to the profile picker.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	middleware.ClearActiveUserCookie(w)
	if err := h.settings.ClearLastUser(r.Context()); err != nil {
		h.logger.Warn("Could not clear last user", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Name     *string `json:"name"`
		Color    *string `json:"color"`
		Settings *string `json:"settings"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	user, err := h.users.UpdateUser(r.Context(), userID, body.Name, body.Color, body.Settings)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete removes a profile and everything it owns.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.chatService.DropSession(userID)
	if lastID, err := h.settings.LastUser(r.Context()); err == nil && lastID == userID {
		if err := h.settings.ClearLastUser(r.Context()); err != nil {
			h.logger.Warn("Could not clear last user", "error", err)
		}
	}
	if activeID, ok := middleware.UserIDFromContext(r.Context()); ok && activeID == userID {
		middleware.ClearActiveUserCookie(w)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
