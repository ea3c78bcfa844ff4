package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shareareview/notify-api/internal/authz"
	"github.com/shareareview/notify-api/internal/inbox"
)

type FolderHandler struct {
	folders inbox.FolderService
	logger  zerolog.Logger
}

func NewFolderHandler(folders inbox.FolderService, logger zerolog.Logger) *FolderHandler {
	return &FolderHandler{
		folders: folders,
		logger:  logger.With().Str("handler", "folder").Logger(),
	}
}

func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	folders, err := h.folders.ListFolders(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"folders": folders,
	})
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	folder, err := h.folders.CreateFolder(r.Context(), userID, payload.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, folder)
}

func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}
	folderID, ok := pathID(r, "folderID")
	if !ok {
		http.Error(w, "Folder ID is required", http.StatusBadRequest)
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	folder, err := h.folders.RenameFolder(r.Context(), userID, folderID, payload.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, folder)
}

func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}
	folderID, ok := pathID(r, "folderID")
	if !ok {
		http.Error(w, "Folder ID is required", http.StatusBadRequest)
		return
	}

	if err := h.folders.DeleteFolder(r.Context(), userID, folderID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
