package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shareareview/notify-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	CreateUser(ctx context.Context, email, password, displayName string) (models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, userID int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, email, display_name, password_hash, is_active, created_at"

func (u *userRepository) CreateUser(ctx context.Context, email, password, displayName string) (models.User, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	const query = `
		INSERT INTO notify.users (email, display_name, password_hash, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING ` + userColumns

	row := u.db.QueryRowContext(ctx, query, email, displayName, string(hash))
	return scanUser(row)
}

func (u *userRepository) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	user, err := u.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, errors.New("invalid credentials")
		}
		return models.User{}, err
	}

	if !user.IsActive {
		return models.User{}, errors.New("user is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, errors.New("invalid credentials")
	}

	return user, nil
}

func (u *userRepository) GetUserByID(ctx context.Context, userID int64) (models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM notify.users
		WHERE id = $1`

	row := u.db.QueryRowContext(ctx, query, userID)
	return scanUser(row)
}

func (u *userRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM notify.users
		WHERE email = $1`

	row := u.db.QueryRowContext(ctx, query, strings.TrimSpace(email))
	return scanUser(row)
}

func scanUser(scanner interface {
	Scan(dest ...interface{}) error
}) (models.User, error) {
	var user models.User
	if err := scanner.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
	); err != nil {
		return models.User{}, err
	}
	return user, nil
}
