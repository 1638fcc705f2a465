package service

import (
	"context"
	"strings"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"
	"github.com/mjovanc/codesnippets/internal/repository"

	"github.com/google/uuid"
)

// SnippetService implements CRUD over the snippet store.
type SnippetService struct {
	snippets repository.Snippets
}

func NewSnippetService(snippets repository.Snippets) *SnippetService {
	return &SnippetService{snippets: snippets}
}

// Create stores a new snippet. Code is required, title is optional.
func (s *SnippetService) Create(ctx context.Context, title, code string) (models.Snippet, error) {
	if strings.TrimSpace(code) == "" {
		return models.Snippet{}, newValidationError("code", "can't be blank")
	}

	now := time.Now().UTC()
	sn := models.Snippet{
		ID:        uuid.NewString(),
		Title:     title,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.snippets.Create(ctx, sn); err != nil {
		return models.Snippet{}, err
	}
	return sn, nil
}

// List returns every snippet in insertion order.
func (s *SnippetService) List(ctx context.Context) ([]models.Snippet, error) {
	return s.snippets.List(ctx)
}

// Get fetches one snippet.
func (s *SnippetService) Get(ctx context.Context, id string) (models.Snippet, error) {
	sn, err := s.snippets.Get(ctx, id)
	if err != nil {
		return models.Snippet{}, err
	}
	if sn == nil {
		return models.Snippet{}, ErrSnippetNotFound
	}
	return *sn, nil
}

// Update rewrites title/code of one snippet. A zero-row update is
// disambiguated with a follow-up read: a missing row is ErrSnippetNotFound,
// an existing one means the caller's view was stale (ErrSnippetConflict).
func (s *SnippetService) Update(ctx context.Context, id, title, code string) error {
	if strings.TrimSpace(code) == "" {
		return newValidationError("code", "can't be blank")
	}

	n, err := s.snippets.Update(ctx, id, title, code, time.Now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	sn, err := s.snippets.Get(ctx, id)
	if err != nil {
		return err
	}
	if sn == nil {
		return ErrSnippetNotFound
	}
	return ErrSnippetConflict
}

// Delete removes a snippet; a missing id is not an error.
func (s *SnippetService) Delete(ctx context.Context, id string) error {
	return s.snippets.Delete(ctx, id)
}
