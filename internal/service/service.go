package service

import (
	"context"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"
	"github.com/mjovanc/codesnippets/internal/repository"
)

// Authorization validates and stores credentials and verifies logins.
type Authorization interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
}

// Snippets exposes CRUD over shared snippets.
type Snippets interface {
	Create(ctx context.Context, title, code string) (models.Snippet, error)
	List(ctx context.Context) ([]models.Snippet, error)
	Get(ctx context.Context, id string) (models.Snippet, error)
	Update(ctx context.Context, id, title, code string) error
	Delete(ctx context.Context, id string) error
}

// Sessions manages the server-side records behind the signed session cookie,
// including the one-shot flash channel and the anti-fixation regenerate step.
type Sessions interface {
	Issue(ctx context.Context) (models.Session, string, error)
	Resolve(ctx context.Context, token string) (*models.Session, error)
	Regenerate(ctx context.Context, old models.Session, username string) (models.Session, string, error)
	Destroy(ctx context.Context, id string) error
	SetFlash(ctx context.Context, s *models.Session, f models.Flash) error
	TakeFlash(ctx context.Context, s *models.Session) (*models.Flash, error)
	TTL() time.Duration
	// Sweep removes expired session rows on the given tick until ctx is done.
	Sweep(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Snippets
	Sessions
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, sessionSecret string) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users),
		Snippets:      NewSnippetService(repos.Snippets),
		Sessions:      NewSessionService(repos.Sessions, sessionSecret),
	}
}
