package handlers

import (
	"net/http"

	"github.com/localaichat/localaichat/internal/services"
)

// FolderHandler serves folder CRUD.
type FolderHandler struct {
	folders *services.FolderService
	logger  services.Logger
}

func NewFolderHandler(folders *services.FolderService, logger services.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, logger: logger}
}

func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	folders, err := h.folders.ListFolders(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	folder, err := h.folders.CreateFolder(r.Context(), userID, body.Name, body.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	folderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
		Order *int    `json:"order"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	folder, err := h.folders.UpdateFolder(r.Context(), userID, folderID, body.Name, body.Color, body.Order)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	folderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.folders.DeleteFolder(r.Context(), userID, folderID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
