package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"
)

type SnippetRepository struct {
	db *sql.DB
}

func NewSnippetRepository(db *sql.DB) *SnippetRepository {
	return &SnippetRepository{db: db}
}

var _ Snippets = (*SnippetRepository)(nil)

const (
	insertSnippetSQL = `INSERT INTO snippets (id, title, code, created_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	selectSnippetsSQL = `SELECT id, title, code, created_by, created_at, updated_at FROM snippets ORDER BY created_at, id`

	selectSnippetByIDSQL = `SELECT id, title, code, created_by, created_at, updated_at FROM snippets WHERE id = ?`

	updateSnippetSQL = `UPDATE snippets SET title = ?, code = ?, updated_at = ? WHERE id = ?`

	deleteSnippetSQL = `DELETE FROM snippets WHERE id = ?`
)

// Create inserts a new snippet.
func (r *SnippetRepository) Create(ctx context.Context, s models.Snippet) error {
	_, err := r.db.ExecContext(ctx, insertSnippetSQL,
		s.ID, s.Title, s.Code, s.CreatedBy, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert snippet %q: %w", s.ID, err)
	}
	return nil
}

// List returns all snippets in insertion order. Each call runs a fresh query.
func (r *SnippetRepository) List(ctx context.Context) ([]models.Snippet, error) {
	rows, err := r.db.QueryContext(ctx, selectSnippetsSQL)
	if err != nil {
		return nil, fmt.Errorf("select snippets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Snippet
	for rows.Next() {
		var s models.Snippet
		if err := rows.Scan(&s.ID, &s.Title, &s.Code, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan snippet row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snippets: %w", err)
	}
	return out, nil
}

// Get fetches one snippet by id. Returns (nil, nil) if not found.
func (r *SnippetRepository) Get(ctx context.Context, id string) (*models.Snippet, error) {
	var s models.Snippet
	err := r.db.QueryRowContext(ctx, selectSnippetByIDSQL, id).
		Scan(&s.ID, &s.Title, &s.Code, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select snippet %q: %w", id, err)
	}
	return &s, nil
}

// Update rewrites title/code for one snippet and reports how many rows the
// statement matched. Zero rows is the optimistic-concurrency signal the
// service layer interprets.
func (r *SnippetRepository) Update(ctx context.Context, id, title, code string, updatedAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, updateSnippetSQL, title, code, updatedAt, id)
	if err != nil {
		return 0, fmt.Errorf("update snippet %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for snippet %q: %w", id, err)
	}
	return n, nil
}

// Delete removes a snippet. Deleting a missing id is not an error.
func (r *SnippetRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteSnippetSQL, id); err != nil {
		return fmt.Errorf("delete snippet %q: %w", id, err)
	}
	return nil
}
