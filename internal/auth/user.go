package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"apotek/internal/database"
	"apotek/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("username and password are required")
)

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// Register creates an account after checking the username is free. The
// UNIQUE constraint on users.username backs the check up for concurrent
// registrations and surfaces as the same ErrUserExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	_, err := s.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.Create(ctx, username, string(hash))
}

// Create stores a user with an already hashed password.
func (s *UserService) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(
		"INSERT INTO users (username, password_hash) VALUES (?, ?) RETURNING id",
	), username, passwordHash).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

// Authenticate never tells an unknown username apart from a wrong password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getOne(ctx, "SELECT id, username, password_hash FROM users WHERE id = ?", id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getOne(ctx, "SELECT id, username, password_hash FROM users WHERE username = ?", username)
}

func (s *UserService) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := s.db.GetContext(ctx, &user, s.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users")
	return count, err
}

// EnsureDefaultUser creates the given account when no user exists yet.
// It is a no-op when either value is empty.
func (s *UserService) EnsureDefaultUser(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	count, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if _, err := s.Register(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}
