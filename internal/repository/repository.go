package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"
)

// Sentinel errors the repositories classify store failures into. Services
// never see raw SQLite error shapes.
var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicate         = errors.New("duplicate record")
)

type Users interface {
	Create(ctx context.Context, u models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type Snippets interface {
	Create(ctx context.Context, s models.Snippet) error
	List(ctx context.Context) ([]models.Snippet, error)
	Get(ctx context.Context, id string) (*models.Snippet, error)
	// Update returns the number of rows the statement matched; zero is the
	// caller's optimistic-concurrency signal.
	Update(ctx context.Context, id, title, code string, updatedAt time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

type Sessions interface {
	Create(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, s models.Session) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Repository struct {
	Users    Users
	Snippets Snippets
	Sessions Sessions
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserRepository(db),
		Snippets: NewSnippetRepository(db),
		Sessions: NewSessionRepository(db),
	}
}
