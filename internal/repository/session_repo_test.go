package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockSessionRepo(t *testing.T) (*SessionRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewSessionRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func testSession() models.Session {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.Session{
		ID:        "sess-1",
		Username:  "alice",
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := testSession()
	s.Flash = &models.Flash{Type: "success", Text: "hello"}

	repo, mock, cleanup := newMockSessionRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(insertSessionSQL)).
		WithArgs(s.ID, s.Username, "success", "hello", s.CreatedAt, s.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rows := sqlmock.NewRows([]string{"id", "username", "flash_type", "flash_text", "created_at", "expires_at"}).
		AddRow(s.ID, s.Username, "success", "hello", s.CreatedAt, s.ExpiresAt)
	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs(s.ID).
		WillReturnRows(rows)

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	got, err := repo.Get(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected session, got nil")
	}
	if got.Flash == nil || got.Flash.Type != "success" || got.Flash.Text != "hello" {
		t.Fatalf("flash not restored: %+v", got.Flash)
	}
	if got.Username != "alice" {
		t.Fatalf("expected username alice, got %q", got.Username)
	}
}

func TestSessionRepository_Get_NoFlashMapsToNil(t *testing.T) {
	s := testSession()

	repo, mock, cleanup := newMockSessionRepo(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "username", "flash_type", "flash_text", "created_at", "expires_at"}).
		AddRow(s.ID, s.Username, "", "", s.CreatedAt, s.ExpiresAt)
	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs(s.ID).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Flash != nil {
		t.Fatalf("expected nil flash, got %+v", got.Flash)
	}
}

func TestSessionRepository_Get_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockSessionRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil session, got %+v", got)
	}
}

func TestSessionRepository_Update_ClearsFlash(t *testing.T) {
	s := testSession()

	repo, mock, cleanup := newMockSessionRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(updateSessionSQL)).
		WithArgs(s.Username, "", "", s.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	repo, mock, cleanup := newMockSessionRepo(t)
	defer cleanup()

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(deleteExpiredSessionsSQL)).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
}
