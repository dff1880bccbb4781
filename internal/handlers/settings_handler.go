package handlers

import (
	"net/http"

	"github.com/localaichat/localaichat/internal/domain"
	"github.com/localaichat/localaichat/internal/services"
	"github.com/localaichat/localaichat/internal/services/ai"
)

// SettingsHandler serves the shared client settings and the model list.
type SettingsHandler struct {
	settings *services.SettingsService
	provider ai.CompletionProvider
	logger   services.Logger
}

func NewSettingsHandler(settings *services.SettingsService, provider ai.CompletionProvider, logger services.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, provider: provider, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientSettings, err := h.settings.GetClientSettings(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, clientSettings)
}

func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var body domain.ClientSettings
	if !decodeBody(w, r, &body) {
		return
	}
	if err := h.settings.SaveClientSettings(r.Context(), body); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// Models lists what the inference endpoint currently serves.
func (h *SettingsHandler) Models(w http.ResponseWriter, r *http.Request) {
	models, err := h.provider.ListModels(r.Context())
	if err != nil {
		h.logger.Warn("Could not list models", "error", err)
		writeError(w, http.StatusBadGateway, "could not reach inference server")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": models})
}
