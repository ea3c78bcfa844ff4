package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shareareview/notify-api/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, params CreateNotificationParams) (models.Notification, error)
	GetByID(ctx context.Context, notificationID int64) (models.Notification, error)
	UpdateStatus(ctx context.Context, notificationID int64, status models.NotificationStatus) (models.Notification, error)
	UpdateFolder(ctx context.Context, notificationID, folderID int64) (models.Notification, error)
	ListByUser(ctx context.Context, userID int64, filter ListFilter) ([]models.Notification, error)
}

// ListFilter enumerates the supported filter combinations explicitly; the
// WHERE clause is fixed and every filter is an optional parameter, never a
// concatenated fragment.
type ListFilter struct {
	FolderID *int64
	Type     models.NotificationType // empty means all types
	Search   string                  // case-insensitive substring over title and message
}

type CreateNotificationParams struct {
	SenderID    int64
	RecipientID int64
	Title       string
	Message     string
	Type        models.NotificationType
	FolderID    int64
	Metadata    map[string]interface{}
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = "id, sender_id, recipient_id, title, message, type, status, folder_id, metadata, sent_at"

func (r *notificationRepository) Create(ctx context.Context, params CreateNotificationParams) (models.Notification, error) {
	const query = `
		INSERT INTO notify.notifications (sender_id, recipient_id, title, message, type, status, folder_id, metadata)
		VALUES ($1, $2, $3, $4, $5, 'unread', $6, $7)
		RETURNING ` + notificationColumns

	var metadata interface{}
	if len(params.Metadata) > 0 {
		bytes, err := json.Marshal(params.Metadata)
		if err != nil {
			return models.Notification{}, fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = bytes
	}

	row := r.db.QueryRowContext(ctx, query,
		params.SenderID,
		params.RecipientID,
		params.Title,
		params.Message,
		params.Type,
		params.FolderID,
		metadata,
	)
	return scanNotification(row)
}

func (r *notificationRepository) GetByID(ctx context.Context, notificationID int64) (models.Notification, error) {
	const query = `
		SELECT ` + notificationColumns + `
		FROM notify.notifications
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, notificationID)
	return scanNotification(row)
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, notificationID int64, status models.NotificationStatus) (models.Notification, error) {
	const query = `
		UPDATE notify.notifications
		SET status = $2
		WHERE id = $1
		RETURNING ` + notificationColumns

	row := r.db.QueryRowContext(ctx, query, notificationID, status)
	return scanNotification(row)
}

func (r *notificationRepository) UpdateFolder(ctx context.Context, notificationID, folderID int64) (models.Notification, error) {
	const query = `
		UPDATE notify.notifications
		SET folder_id = $2
		WHERE id = $1
		RETURNING ` + notificationColumns

	row := r.db.QueryRowContext(ctx, query, notificationID, folderID)
	return scanNotification(row)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64, filter ListFilter) ([]models.Notification, error) {
	const query = `
		SELECT ` + notificationColumns + `
		FROM notify.notifications
		WHERE recipient_id = $1
		  AND ($2::bigint IS NULL OR folder_id = $2)
		  AND ($3::text = '' OR type = $3)
		  AND ($4::text = '' OR title ILIKE '%' || $4 || '%' ESCAPE '\' OR message ILIKE '%' || $4 || '%' ESCAPE '\')
		ORDER BY sent_at DESC, id DESC`

	var folderID sql.NullInt64
	if filter.FolderID != nil {
		folderID = sql.NullInt64{Int64: *filter.FolderID, Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, userID, folderID, string(filter.Type), likeEscape(filter.Search))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		notif, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notif)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// likeEscape neutralizes ILIKE metacharacters in a search term so the
// query matches the text literally.
func likeEscape(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func scanNotification(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Notification, error) {
	var (
		notif       models.Notification
		metadataRaw []byte
	)

	if err := scanner.Scan(
		&notif.ID,
		&notif.SenderID,
		&notif.RecipientID,
		&notif.Title,
		&notif.Message,
		&notif.Type,
		&notif.Status,
		&notif.FolderID,
		&metadataRaw,
		&notif.SentAt,
	); err != nil {
		return models.Notification{}, err
	}

	if len(metadataRaw) > 0 {
		notif.Metadata = metadataRaw
	}

	return notif, nil
}
