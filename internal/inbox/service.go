package inbox

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shareareview/notify-api/internal/apperr"
	"github.com/shareareview/notify-api/internal/models"
	"github.com/shareareview/notify-api/internal/repository"
)

// Filter narrows ListForUser results. A nil FolderID means every folder,
// an empty Type means all types.
type Filter struct {
	FolderID *int64
	Type     models.NotificationType
	Search   string
}

// BulkResult reports partial success of a bulk move: ids that failed
// validation or ownership checks are skipped, not fatal.
type BulkResult struct {
	Moved  int     `json:"moved"`
	Failed []int64 `json:"failed_ids,omitempty"`
}

// Service is the notification store. Every mutation verifies that the
// acting user owns the notification before touching it.
type Service interface {
	Create(ctx context.Context, senderID, recipientID int64, title, message string, typ models.NotificationType, metadata map[string]interface{}) (models.Notification, error)
	SetStatus(ctx context.Context, userID, notificationID int64, status models.NotificationStatus) (models.Notification, error)
	MoveToFolder(ctx context.Context, userID, notificationID, folderID int64) (models.Notification, error)
	MoveToTrash(ctx context.Context, userID, notificationID int64) (models.Notification, error)
	Restore(ctx context.Context, userID, notificationID int64) (models.Notification, error)
	BulkMoveToFolder(ctx context.Context, userID int64, notificationIDs []int64, folderID int64) (BulkResult, error)
	ListForUser(ctx context.Context, userID int64, filter Filter) ([]models.Notification, error)
}

type service struct {
	repo      repository.NotificationRepository
	folders   repository.FolderRepository
	users     repository.UserRepository
	logger    zerolog.Logger
	timeout   time.Duration
	notifiers []Notifier
}

func NewService(repo repository.NotificationRepository, folders repository.FolderRepository, users repository.UserRepository, logger zerolog.Logger, timeout time.Duration, notifiers ...Notifier) Service {
	active := make([]Notifier, 0, len(notifiers))
	for _, notifier := range notifiers {
		if notifier != nil {
			active = append(active, notifier)
		}
	}
	return &service{
		repo:      repo,
		folders:   folders,
		users:     users,
		logger:    logger.With().Str("component", "notification_service").Logger(),
		timeout:   timeout,
		notifiers: active,
	}
}

func (s *service) Create(ctx context.Context, senderID, recipientID int64, title, message string, typ models.NotificationType, metadata map[string]interface{}) (models.Notification, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" {
		return models.Notification{}, apperr.Validation("title is required")
	}
	if message == "" {
		return models.Notification{}, apperr.Validation("message is required")
	}
	if !models.IsValidNotificationType(typ) {
		return models.Notification{}, apperr.Validation("invalid notification type %q", typ)
	}

	recipient, err := s.users.GetUserByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Notification{}, apperr.Validation("recipient %d does not exist", recipientID)
		}
		return models.Notification{}, storeErr(err, "load recipient")
	}

	inboxID, err := s.systemFolderID(ctx, recipientID, models.FolderNameInbox)
	if err != nil {
		return models.Notification{}, err
	}

	notif, err := s.repo.Create(ctx, repository.CreateNotificationParams{
		SenderID:    senderID,
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        typ,
		FolderID:    inboxID,
		Metadata:    metadata,
	})
	if err != nil {
		return models.Notification{}, storeErr(err, "persist notification")
	}

	for _, notifier := range s.notifiers {
		if err := notifier.Notify(ctx, recipient, notif); err != nil {
			logNotifyError(s.logger, err, notifierChannelName(notifier), notif)
		}
	}

	return notif, nil
}

func (s *service) SetStatus(ctx context.Context, userID, notificationID int64, status models.NotificationStatus) (models.Notification, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	if !models.IsValidNotificationStatus(status) {
		return models.Notification{}, apperr.Validation("invalid status %q", status)
	}

	notif, err := s.ownedNotification(ctx, userID, notificationID)
	if err != nil {
		return models.Notification{}, err
	}
	// Idempotent: setting the current status again is a no-op.
	if notif.Status == status {
		return notif, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, notificationID, status)
	if err != nil {
		return models.Notification{}, storeErr(err, "update status")
	}
	return updated, nil
}

func (s *service) MoveToFolder(ctx context.Context, userID, notificationID, folderID int64) (models.Notification, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	notif, err := s.ownedNotification(ctx, userID, notificationID)
	if err != nil {
		return models.Notification{}, err
	}

	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Notification{}, apperr.Validation("folder %d does not belong to recipient", folderID)
		}
		return models.Notification{}, storeErr(err, "load folder")
	}
	if folder.UserID != notif.RecipientID {
		return models.Notification{}, apperr.Validation("folder %d does not belong to recipient", folderID)
	}

	if notif.FolderID == folderID {
		return notif, nil
	}

	moved, err := s.repo.UpdateFolder(ctx, notificationID, folderID)
	if err != nil {
		return models.Notification{}, storeErr(err, "move notification")
	}
	return moved, nil
}

// MoveToTrash is the canonical delete action: the notification stays
// intact and reversible inside the Trash system folder.
func (s *service) MoveToTrash(ctx context.Context, userID, notificationID int64) (models.Notification, error) {
	lookupCtx, cancel := bound(ctx, s.timeout)
	defer cancel()

	trashID, err := s.systemFolderID(lookupCtx, userID, models.FolderNameTrash)
	if err != nil {
		return models.Notification{}, err
	}
	return s.MoveToFolder(ctx, userID, notificationID, trashID)
}

// Restore moves a trashed notification back to the Inbox.
func (s *service) Restore(ctx context.Context, userID, notificationID int64) (models.Notification, error) {
	lookupCtx, cancel := bound(ctx, s.timeout)
	defer cancel()

	inboxID, err := s.systemFolderID(lookupCtx, userID, models.FolderNameInbox)
	if err != nil {
		return models.Notification{}, err
	}
	return s.MoveToFolder(ctx, userID, notificationID, inboxID)
}

func (s *service) BulkMoveToFolder(ctx context.Context, userID int64, notificationIDs []int64, folderID int64) (BulkResult, error) {
	var result BulkResult
	for _, id := range notificationIDs {
		if _, err := s.MoveToFolder(ctx, userID, id, folderID); err != nil {
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Moved++
	}
	if len(result.Failed) > 0 {
		s.logger.Warn().
			Int64("user_id", userID).
			Int("moved", result.Moved).
			Ints64("failed_ids", result.Failed).
			Msg("bulk move completed with skipped notifications")
	}
	return result, nil
}

func (s *service) ListForUser(ctx context.Context, userID int64, filter Filter) ([]models.Notification, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	if filter.Type != "" && !models.IsValidNotificationType(filter.Type) {
		return nil, apperr.Validation("invalid notification type %q", filter.Type)
	}

	notifications, err := s.repo.ListByUser(ctx, userID, repository.ListFilter{
		FolderID: filter.FolderID,
		Type:     filter.Type,
		Search:   strings.TrimSpace(filter.Search),
	})
	if err != nil {
		return nil, storeErr(err, "list notifications")
	}
	return notifications, nil
}

func (s *service) systemFolderID(ctx context.Context, userID int64, name string) (int64, error) {
	folder, err := s.folders.GetByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("system folder %q missing for user %d", name, userID)
		}
		return 0, storeErr(err, "resolve system folder")
	}
	return folder.ID, nil
}

// ownedNotification loads a notification and checks ownership. Unknown
// ids are not-found; ids owned by another user are an authorization
// failure, kept distinct so handlers can answer 403 instead of 404.
func (s *service) ownedNotification(ctx context.Context, userID, notificationID int64) (models.Notification, error) {
	notif, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Notification{}, apperr.NotFound("notification %d not found", notificationID)
		}
		return models.Notification{}, storeErr(err, "load notification")
	}
	if notif.RecipientID != userID {
		return models.Notification{}, apperr.Authorization("notification %d is not owned by user %d", notificationID, userID)
	}
	return notif, nil
}
