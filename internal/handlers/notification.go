package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shareareview/notify-api/internal/authz"
	"github.com/shareareview/notify-api/internal/inbox"
	"github.com/shareareview/notify-api/internal/models"
)

type NotificationHandler struct {
	service inbox.Service
	views   *inbox.Aggregator
	logger  zerolog.Logger
}

func NewNotificationHandler(service inbox.Service, views *inbox.Aggregator, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		views:   views,
		logger:  logger.With().Str("handler", "notification").Logger(),
	}
}

// Create handles a user-to-user send; the sender is the authenticated
// user and the type is always "user". System notifications are created
// internally, never through this endpoint.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	var payload struct {
		RecipientID int64                  `json:"recipient_id"`
		Title       string                 `json:"title"`
		Message     string                 `json:"message"`
		Metadata    map[string]interface{} `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	notif, err := h.service.Create(r.Context(), userID, payload.RecipientID, payload.Title, payload.Message, models.NotificationTypeUser, payload.Metadata)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, notif)
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	filter := inbox.Filter{
		Type:   models.NotificationType(strings.TrimSpace(r.URL.Query().Get("type"))),
		Search: r.URL.Query().Get("q"),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("folder_id")); raw != "" {
		folderID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || folderID <= 0 {
			http.Error(w, "Invalid folder_id", http.StatusBadRequest)
			return
		}
		filter.FolderID = &folderID
	}

	notifications, err := h.service.ListForUser(r.Context(), userID, filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
	})
}

func (h *NotificationHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	view, err := h.views.BuildView(r.Context(), userID, inbox.ViewCriteria{
		Folder: r.URL.Query().Get("folder"),
		Type:   r.URL.Query().Get("type"),
		Search: r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *NotificationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}
	notifID, ok := pathID(r, "notificationID")
	if !ok {
		http.Error(w, "Notification ID is required", http.StatusBadRequest)
		return
	}

	var payload struct {
		Status models.NotificationStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	notif, err := h.service.SetStatus(r.Context(), userID, notifID, payload.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, notif)
}

func (h *NotificationHandler) MoveToFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}
	notifID, ok := pathID(r, "notificationID")
	if !ok {
		http.Error(w, "Notification ID is required", http.StatusBadRequest)
		return
	}

	var payload struct {
		FolderID int64 `json:"folder_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	notif, err := h.service.MoveToFolder(r.Context(), userID, notifID, payload.FolderID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, notif)
}

func (h *NotificationHandler) Trash(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}
	notifID, ok := pathID(r, "notificationID")
	if !ok {
		http.Error(w, "Notification ID is required", http.StatusBadRequest)
		return
	}

	notif, err := h.service.MoveToTrash(r.Context(), userID, notifID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, notif)
}

func (h *NotificationHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}
	notifID, ok := pathID(r, "notificationID")
	if !ok {
		http.Error(w, "Notification ID is required", http.StatusBadRequest)
		return
	}

	notif, err := h.service.Restore(r.Context(), userID, notifID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, notif)
}

func (h *NotificationHandler) BulkMove(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	var payload struct {
		NotificationIDs []int64 `json:"notification_ids"`
		FolderID        int64   `json:"folder_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(payload.NotificationIDs) == 0 {
		http.Error(w, "notification_ids is required", http.StatusBadRequest)
		return
	}

	result, err := h.service.BulkMoveToFolder(r.Context(), userID, payload.NotificationIDs, payload.FolderID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
