package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/localaichat/localaichat/internal/middleware"
	"github.com/localaichat/localaichat/internal/services"
)

// RouterDeps collects everything the HTTP layer needs.
type RouterDeps struct {
	Users    *UserHandler
	Chats    *ChatHandler
	Folders  *FolderHandler
	Memories *MemoryHandler
	Settings *SettingsHandler
	Session  *SessionHandler
	Ollama   *OllamaHandler

	CookieSecret string
	StaticDir    string
	Logger       services.Logger
}

// NewRouter builds the API router with the standard middleware chain.
func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORS)
	r.Use(middleware.UserContext(deps.CookieSecret))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/users", deps.Users.List).Methods(http.MethodGet)
	api.HandleFunc("/users", deps.Users.Create).Methods(http.MethodPost)
	api.HandleFunc("/users/active", deps.Users.Active).Methods(http.MethodGet)
	api.HandleFunc("/users/deactivate", deps.Users.Deactivate).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}/activate", deps.Users.Activate).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}", deps.Users.Update).Methods(http.MethodPut)
	api.HandleFunc("/users/{id:[0-9]+}", deps.Users.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/chats", deps.Chats.List).Methods(http.MethodGet)
	api.HandleFunc("/chats", deps.Chats.Create).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id:[0-9]+}/messages", deps.Chats.Messages).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id:[0-9]+}/messages", deps.Chats.Send).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id:[0-9]+}/messages", deps.Chats.ClearMessages).Methods(http.MethodDelete)
	api.HandleFunc("/chats/{id:[0-9]+}", deps.Chats.Update).Methods(http.MethodPatch)
	api.HandleFunc("/chats/{id:[0-9]+}", deps.Chats.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/folders", deps.Folders.List).Methods(http.MethodGet)
	api.HandleFunc("/folders", deps.Folders.Create).Methods(http.MethodPost)
	api.HandleFunc("/folders/{id:[0-9]+}", deps.Folders.Update).Methods(http.MethodPatch)
	api.HandleFunc("/folders/{id:[0-9]+}", deps.Folders.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/memories", deps.Memories.List).Methods(http.MethodGet)
	api.HandleFunc("/memories", deps.Memories.Create).Methods(http.MethodPost)
	api.HandleFunc("/memories", deps.Memories.DeleteAll).Methods(http.MethodDelete)
	api.HandleFunc("/memories/{id:[0-9]+}", deps.Memories.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/settings", deps.Settings.Get).Methods(http.MethodGet)
	api.HandleFunc("/settings", deps.Settings.Put).Methods(http.MethodPut)
	api.HandleFunc("/models", deps.Settings.Models).Methods(http.MethodGet)

	api.HandleFunc("/session", deps.Session.Get).Methods(http.MethodGet)
	api.HandleFunc("/session/search", deps.Session.SetSearch).Methods(http.MethodPut)
	api.HandleFunc("/session/documents", deps.Session.AttachDocument).Methods(http.MethodPost)
	api.HandleFunc("/session/documents", deps.Session.ClearDocuments).Methods(http.MethodDelete)
	api.HandleFunc("/search", deps.Session.Search).Methods(http.MethodPost)
	api.HandleFunc("/upload", deps.Session.Upload).Methods(http.MethodPost)

	api.HandleFunc("/ollama/tags", deps.Ollama.Tags).Methods(http.MethodGet)
	api.HandleFunc("/ollama/pull", deps.Ollama.Pull).Methods(http.MethodPost)
	api.HandleFunc("/ollama/models/{name:.+}", deps.Ollama.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if deps.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(deps.StaticDir)))
	}

	return r
}
