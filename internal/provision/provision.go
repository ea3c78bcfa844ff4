// Package provision wires account creation to the notification core: a
// new user gets their system folders before any notification can target
// them, then a welcome message lands in the fresh Inbox.
package provision

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shareareview/notify-api/internal/apperr"
	"github.com/shareareview/notify-api/internal/inbox"
	"github.com/shareareview/notify-api/internal/models"
	"github.com/shareareview/notify-api/internal/repository"
)

const (
	welcomeTitle = "Welcome to Share-A-Review"
)

type Service struct {
	users         repository.UserRepository
	folders       inbox.FolderService
	notifications inbox.Service
	logger        zerolog.Logger
}

func NewService(users repository.UserRepository, folders inbox.FolderService, notifications inbox.Service, logger zerolog.Logger) *Service {
	return &Service{
		users:         users,
		folders:       folders,
		notifications: notifications,
		logger:        logger.With().Str("component", "provision_service").Logger(),
	}
}

// SignUp creates the user account, provisions Inbox and Trash, and sends
// the system welcome notification. Folder provisioning must complete
// before the welcome send; the notification store resolves the
// recipient's Inbox at creation time.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.User{}, apperr.Validation("email is required")
	}
	if password == "" {
		return models.User{}, apperr.Validation("password is required")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, apperr.Validation("email %q is already registered", email)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, errors.Wrap(err, "check existing user")
	}

	user, err := s.users.CreateUser(ctx, email, password, displayName)
	if err != nil {
		return models.User{}, errors.Wrap(err, "create user")
	}

	if err := s.folders.ProvisionSystemFolders(ctx, user.ID); err != nil {
		return models.User{}, errors.Wrap(err, "provision system folders")
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = email
	}
	welcome := fmt.Sprintf("Hi %s, welcome to Share-A-Review! Reviews you follow and replies to your comments will show up here.", name)
	meta := map[string]interface{}{"kind": "welcome"}
	if _, err := s.notifications.Create(ctx, models.SystemSenderID, user.ID, welcomeTitle, welcome, models.NotificationTypeSystem, meta); err != nil {
		// The account and folders are usable; a missing welcome message
		// is not worth failing the signup for.
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to send welcome notification")
	}

	s.logger.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("account provisioned")
	return user, nil
}
