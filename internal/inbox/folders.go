package inbox

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shareareview/notify-api/internal/apperr"
	"github.com/shareareview/notify-api/internal/models"
	"github.com/shareareview/notify-api/internal/repository"
)

// FolderService owns the set of notification folders for a user: the two
// provisioned system folders plus any user-created custom folders.
type FolderService interface {
	ListFolders(ctx context.Context, userID int64) ([]models.NotificationFolder, error)
	CreateFolder(ctx context.Context, userID int64, name string) (models.NotificationFolder, error)
	RenameFolder(ctx context.Context, userID, folderID int64, newName string) (models.NotificationFolder, error)
	DeleteFolder(ctx context.Context, userID, folderID int64) error
	// ProvisionSystemFolders creates Inbox and Trash for a new user. It
	// must run before any notification targets that user.
	ProvisionSystemFolders(ctx context.Context, userID int64) error
	// SystemFolderID resolves Inbox or Trash for a user. A missing system
	// folder indicates a provisioning bug, surfaced as not-found.
	SystemFolderID(ctx context.Context, userID int64, name string) (int64, error)
}

type folderService struct {
	repo    repository.FolderRepository
	logger  zerolog.Logger
	timeout time.Duration
}

func NewFolderService(repo repository.FolderRepository, logger zerolog.Logger, timeout time.Duration) FolderService {
	return &folderService{
		repo:    repo,
		logger:  logger.With().Str("component", "folder_service").Logger(),
		timeout: timeout,
	}
}

func (s *folderService) ListFolders(ctx context.Context, userID int64) ([]models.NotificationFolder, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	folders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "list folders")
	}
	return folders, nil
}

func (s *folderService) CreateFolder(ctx context.Context, userID int64, name string) (models.NotificationFolder, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.NotificationFolder{}, apperr.Validation("folder name is required")
	}

	// Name uniqueness is case-sensitive per user.
	if _, err := s.repo.GetByName(ctx, userID, name); err == nil {
		return models.NotificationFolder{}, apperr.Validation("folder %q already exists", name)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.NotificationFolder{}, storeErr(err, "check folder name")
	}

	folder, err := s.repo.Create(ctx, userID, name, models.FolderKindUser)
	if err != nil {
		// A concurrent create can slip past the name pre-check and land
		// on the unique constraint instead.
		if isUniqueViolation(err) {
			return models.NotificationFolder{}, apperr.Validation("folder %q already exists", name)
		}
		return models.NotificationFolder{}, storeErr(err, "create folder")
	}

	s.logger.Info().Int64("user_id", userID).Int64("folder_id", folder.ID).Str("name", folder.Name).Msg("folder created")
	return folder, nil
}

func (s *folderService) RenameFolder(ctx context.Context, userID, folderID int64, newName string) (models.NotificationFolder, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	folder, err := s.ownedFolder(ctx, userID, folderID)
	if err != nil {
		return models.NotificationFolder{}, err
	}
	if folder.IsSystem() {
		return models.NotificationFolder{}, apperr.Validation("system folders cannot be renamed")
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return models.NotificationFolder{}, apperr.Validation("folder name is required")
	}
	if newName == folder.Name {
		return folder, nil
	}
	if _, err := s.repo.GetByName(ctx, userID, newName); err == nil {
		return models.NotificationFolder{}, apperr.Validation("folder %q already exists", newName)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.NotificationFolder{}, storeErr(err, "check folder name")
	}

	renamed, err := s.repo.Rename(ctx, folderID, newName)
	if err != nil {
		if isUniqueViolation(err) {
			return models.NotificationFolder{}, apperr.Validation("folder %q already exists", newName)
		}
		return models.NotificationFolder{}, storeErr(err, "rename folder")
	}
	return renamed, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID int64) error {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	folder, err := s.ownedFolder(ctx, userID, folderID)
	if err != nil {
		return err
	}
	if folder.IsSystem() {
		return apperr.Validation("system folders cannot be deleted")
	}

	// Resolve Inbox fresh; reassignment and deletion run in one
	// transaction so no notification ever references a deleted folder.
	inboxID, err := s.SystemFolderID(ctx, userID, models.FolderNameInbox)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteWithReassign(ctx, folderID, inboxID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("folder %d not found", folderID)
		}
		return storeErr(err, "delete folder")
	}

	s.logger.Info().Int64("user_id", userID).Int64("folder_id", folderID).Msg("folder deleted, contents moved to inbox")
	return nil
}

func (s *folderService) ProvisionSystemFolders(ctx context.Context, userID int64) error {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	for _, name := range []string{models.FolderNameInbox, models.FolderNameTrash} {
		if _, err := s.repo.Create(ctx, userID, name, models.FolderKindSystem); err != nil {
			return storeErr(err, "provision system folder "+name)
		}
	}
	return nil
}

func (s *folderService) SystemFolderID(ctx context.Context, userID int64, name string) (int64, error) {
	folder, err := s.repo.GetByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("system folder %q missing for user %d", name, userID)
		}
		return 0, storeErr(err, "resolve system folder")
	}
	return folder.ID, nil
}

// ownedFolder loads a folder and verifies ownership. A folder owned by
// another user reports not-found so folder ids never leak across users.
func (s *folderService) ownedFolder(ctx context.Context, userID, folderID int64) (models.NotificationFolder, error) {
	folder, err := s.repo.GetByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NotificationFolder{}, apperr.NotFound("folder %d not found", folderID)
		}
		return models.NotificationFolder{}, storeErr(err, "load folder")
	}
	if folder.UserID != userID {
		return models.NotificationFolder{}, apperr.NotFound("folder %d not found", folderID)
	}
	return folder, nil
}
