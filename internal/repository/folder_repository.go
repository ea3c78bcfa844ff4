package repository

import (
	"context"
	"database/sql"

	"github.com/shareareview/notify-api/internal/models"
)

type FolderRepository interface {
	Create(ctx context.Context, userID int64, name string, kind models.FolderKind) (models.NotificationFolder, error)
	GetByID(ctx context.Context, folderID int64) (models.NotificationFolder, error)
	GetByName(ctx context.Context, userID int64, name string) (models.NotificationFolder, error)
	ListByUser(ctx context.Context, userID int64) ([]models.NotificationFolder, error)
	Rename(ctx context.Context, folderID int64, name string) (models.NotificationFolder, error)
	// DeleteWithReassign moves every notification out of the folder into
	// inboxID and removes the folder row, both inside one transaction.
	DeleteWithReassign(ctx context.Context, folderID, inboxID int64) error
}

type folderRepository struct {
	db *sql.DB
}

func NewFolderRepository(db *sql.DB) FolderRepository {
	return &folderRepository{db: db}
}

const folderColumns = "id, user_id, name, kind, created_at"

func (r *folderRepository) Create(ctx context.Context, userID int64, name string, kind models.FolderKind) (models.NotificationFolder, error) {
	const query = `
		INSERT INTO notify.folders (user_id, name, kind)
		VALUES ($1, $2, $3)
		RETURNING ` + folderColumns

	row := r.db.QueryRowContext(ctx, query, userID, name, kind)
	return scanFolder(row)
}

func (r *folderRepository) GetByID(ctx context.Context, folderID int64) (models.NotificationFolder, error) {
	const query = `
		SELECT ` + folderColumns + `
		FROM notify.folders
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, folderID)
	return scanFolder(row)
}

func (r *folderRepository) GetByName(ctx context.Context, userID int64, name string) (models.NotificationFolder, error) {
	const query = `
		SELECT ` + folderColumns + `
		FROM notify.folders
		WHERE user_id = $1 AND name = $2`

	row := r.db.QueryRowContext(ctx, query, userID, name)
	return scanFolder(row)
}

// ListByUser returns system folders first (Inbox before Trash), then user
// folders in insertion order.
func (r *folderRepository) ListByUser(ctx context.Context, userID int64) ([]models.NotificationFolder, error) {
	const query = `
		SELECT ` + folderColumns + `
		FROM notify.folders
		WHERE user_id = $1
		ORDER BY
			CASE WHEN kind = 'system' THEN 0 ELSE 1 END,
			CASE WHEN kind = 'system' THEN name END,
			id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []models.NotificationFolder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *folderRepository) Rename(ctx context.Context, folderID int64, name string) (models.NotificationFolder, error) {
	const query = `
		UPDATE notify.folders
		SET name = $2
		WHERE id = $1
		RETURNING ` + folderColumns

	row := r.db.QueryRowContext(ctx, query, folderID, name)
	return scanFolder(row)
}

func (r *folderRepository) DeleteWithReassign(ctx context.Context, folderID, inboxID int64) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const reassign = `
		UPDATE notify.notifications
		SET folder_id = $2
		WHERE folder_id = $1`
	if _, err := tx.ExecContext(ctx, reassign, folderID, inboxID); err != nil {
		return err
	}

	const remove = `DELETE FROM notify.folders WHERE id = $1`
	result, err := tx.ExecContext(ctx, remove, folderID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

func scanFolder(scanner interface {
	Scan(dest ...interface{}) error
}) (models.NotificationFolder, error) {
	var folder models.NotificationFolder
	if err := scanner.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.Kind,
		&folder.CreatedAt,
	); err != nil {
		return models.NotificationFolder{}, err
	}
	return folder, nil
}
