package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mjovanc/codesnippets/internal/models"

	"modernc.org/sqlite"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (id, username, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	selectUserByUsernameSQL = `SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE username = ?`
)

// SQLite extended result code for a UNIQUE index violation.
const sqliteConstraintUnique = 2067

// classifyUnique maps a SQLite UNIQUE-constraint failure onto one of the
// repository sentinels, so callers never inspect driver error shapes.
// Returns nil when err is anything else.
func classifyUnique(err error) error {
	msg := err.Error()
	unique := strings.Contains(msg, "UNIQUE constraint failed")

	var se *sqlite.Error
	if errors.As(err, &se) {
		unique = se.Code() == sqliteConstraintUnique
	}
	if !unique {
		return nil
	}

	switch {
	case strings.Contains(msg, "users.username"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "users.email"):
		return ErrDuplicateEmail
	}
	return ErrDuplicate
}

// Create inserts a new user. UNIQUE violations surface as the repository's
// duplicate sentinels.
func (r *UserRepository) Create(ctx context.Context, u models.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if dup := classifyUnique(err); dup != nil {
			return dup
		}
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

// GetByUsername fetches a user by exact username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}
