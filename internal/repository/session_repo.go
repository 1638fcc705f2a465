package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

var _ Sessions = (*SessionRepository)(nil)

const (
	insertSessionSQL = `INSERT INTO sessions (id, username, flash_type, flash_text, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?)`

	selectSessionSQL = `SELECT id, username, flash_type, flash_text, created_at, expires_at FROM sessions WHERE id = ?`

	updateSessionSQL = `UPDATE sessions SET username = ?, flash_type = ?, flash_text = ? WHERE id = ?`

	deleteSessionSQL = `DELETE FROM sessions WHERE id = ?`

	deleteExpiredSessionsSQL = `DELETE FROM sessions WHERE expires_at <= ?`
)

// flashColumns flattens an optional flash into its two columns.
func flashColumns(f *models.Flash) (typ, text string) {
	if f == nil {
		return "", ""
	}
	return f.Type, f.Text
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, s models.Session) error {
	typ, text := flashColumns(s.Flash)
	_, err := r.db.ExecContext(ctx, insertSessionSQL,
		s.ID, s.Username, typ, text, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session %q: %w", s.ID, err)
	}
	return nil
}

// Get fetches a session by id. Returns (nil, nil) if not found.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var (
		s         models.Session
		typ, text string
	)
	err := r.db.QueryRowContext(ctx, selectSessionSQL, id).
		Scan(&s.ID, &s.Username, &typ, &text, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session %q: %w", id, err)
	}
	if typ != "" || text != "" {
		s.Flash = &models.Flash{Type: typ, Text: text}
	}
	return &s, nil
}

// Update rewrites the mutable fields (identity and flash) of a session.
func (r *SessionRepository) Update(ctx context.Context, s models.Session) error {
	typ, text := flashColumns(s.Flash)
	if _, err := r.db.ExecContext(ctx, updateSessionSQL, s.Username, typ, text, s.ID); err != nil {
		return fmt.Errorf("update session %q: %w", s.ID, err)
	}
	return nil
}

// Delete removes a session. Deleting a missing id is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteSessionSQL, id); err != nil {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	return nil
}

// DeleteExpired removes every session whose expiry is at or before now and
// reports how many rows went away.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredSessionsSQL, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for expired sessions: %w", err)
	}
	return n, nil
}
