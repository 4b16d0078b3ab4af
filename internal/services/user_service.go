package services

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/isdelr/devconnector-be/internal/database"
	"github.com/isdelr/devconnector-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidLogin is returned for an unknown e-mail or a wrong password alike.
var ErrInvalidLogin = common.E(common.ErrValidation, "Invalid credentials")

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, name, email, password string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, name, email, password_hash, avatar, created_at"

func scanUser(scanner interface{ Scan(...any) error }) (models.User, error) {
	var user models.User
	var avatar sql.NullString
	if err := scanner.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &avatar, &user.CreatedAt); err != nil {
		return models.User{}, err
	}
	user.Avatar = avatar.String
	return user, nil
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, common.E(common.ErrNotFound, "User not found")
		}
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) getUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// Register creates a new account, hashing the password and deriving the avatar from the e-mail.
func (s *UserService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	email = normalizeEmail(email)

	if _, err := s.getUserByEmail(ctx, email); err == nil {
		return models.User{}, common.E(common.ErrConflict, "User already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("lookup user by email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Avatar:       gravatarURL(email),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users(id, name, email, password_hash, avatar, created_at) VALUES(?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.Avatar, user.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, common.E(common.ErrConflict, "User already exists")
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.getUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidLogin
		}
		return models.User{}, fmt.Errorf("lookup user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidLogin
	}

	user.PasswordHash = ""
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// gravatarURL returns the Gravatar image for email: 200px, pg rated, mystery-man fallback.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
