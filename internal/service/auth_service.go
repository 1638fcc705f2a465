package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"
	"github.com/mjovanc/codesnippets/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcryptCost matches the original registration flow; bumping it only
	// affects new hashes.
	bcryptCost = 8

	minPasswordLen = 10
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// AuthService handles registration and login verification.
type AuthService struct {
	users repository.Users
}

func NewAuthService(users repository.Users) *AuthService {
	return &AuthService{users: users}
}

// Register validates the credentials, hashes the password and persists a new
// user. Username and email are lowercased before any check so uniqueness is
// case-insensitive.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return models.User{}, newValidationError("username", "can't be blank")
	}
	if !usernameRe.MatchString(username) {
		return models.User{}, newValidationError("username", "is invalid")
	}
	if email == "" {
		return models.User{}, newValidationError("email", "can't be blank")
	}
	if !emailRe.MatchString(email) {
		return models.User{}, newValidationError("email", "is invalid")
	}
	if len(password) < minPasswordLen {
		return models.User{}, newValidationError("password",
			fmt.Sprintf("must be of minimum length of %d characters", minPasswordLen))
	}

	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return models.User{}, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return models.User{}, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicate):
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate verifies a username/password pair. Unknown user and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return *u, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
