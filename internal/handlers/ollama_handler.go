package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/localaichat/localaichat/internal/services"
	"github.com/localaichat/localaichat/internal/services/ollama"
)

// OllamaHandler proxies model management to the local Ollama server.
type OllamaHandler struct {
	client *ollama.Client
	logger services.Logger
}

func NewOllamaHandler(client *ollama.Client, logger services.Logger) *OllamaHandler {
	return &OllamaHandler{client: client, logger: logger}
}

// writeOllamaError maps client errors onto gateway statuses: 502 when
// Ollama is unreachable, 504 on timeout, otherwise the upstream status.
func (h *OllamaHandler) writeOllamaError(w http.ResponseWriter, err error) {
	switch {
	case ollama.IsTimeout(err):
		writeError(w, http.StatusGatewayTimeout, "ollama request timed out")
	case ollama.IsUnreachable(err):
		writeError(w, http.StatusBadGateway, "could not reach ollama")
	default:
		var ce *ollama.ClientError
		if errors.As(err, &ce) && ce.StatusCode >= 400 {
			writeError(w, ce.StatusCode, ce.Message)
			return
		}
		h.logger.Error("Ollama request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *OllamaHandler) Tags(w http.ResponseWriter, r *http.Request) {
	models, err := h.client.Tags(r.Context())
	if err != nil {
		h.writeOllamaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": models})
}

// Pull downloads a model, relaying progress as server-sent events.
func (h *OllamaHandler) Pull(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	err := h.client.Pull(r.Context(), body.Name, func(progress ollama.PullProgress) {
		payload, _ := json.Marshal(progress)
		fmt.Fprintf(w, "event: progress\ndata: %s\n\n", payload)
		flusher.Flush()
	})
	if err != nil {
		h.logger.Error("Model pull failed", "model", body.Name, "error", err)
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
		flusher.Flush()
		return
	}

	fmt.Fprint(w, "event: done\ndata: {}\n\n")
	flusher.Flush()
	h.logger.Info("Model pulled", "model", body.Name)
}

func (h *OllamaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := h.client.Delete(r.Context(), name); err != nil {
		h.writeOllamaError(w, err)
		return
	}
	h.logger.Info("Model deleted", "model", name)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
