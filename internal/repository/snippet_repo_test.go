package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockSnippetRepo(t *testing.T) (*SnippetRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewSnippetRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func testSnippet() models.Snippet {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.Snippet{
		ID:        "s-1",
		Title:     "hello",
		Code:      "fmt.Println(\"hi\")",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSnippetRepository_Create(t *testing.T) {
	s := testSnippet()

	repo, mock, cleanup := newMockSnippetRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(insertSnippetSQL)).
		WithArgs(s.ID, s.Title, s.Code, s.CreatedBy, s.CreatedAt, s.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSnippetRepository_List(t *testing.T) {
	s := testSnippet()

	tests := []struct {
		name       string
		mockExpect func(sqlmock.Sqlmock)
		wantLen    int
		wantErr    bool
	}{
		{
			name: "two rows in insertion order",
			mockExpect: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "title", "code", "created_by", "created_at", "updated_at"}).
					AddRow("s-1", "hello", "a", "", s.CreatedAt, s.UpdatedAt).
					AddRow("s-2", "", "b", "", s.CreatedAt.Add(time.Minute), s.UpdatedAt.Add(time.Minute))
				m.ExpectQuery(regexp.QuoteMeta(selectSnippetsSQL)).WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "empty listing",
			mockExpect: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "title", "code", "created_by", "created_at", "updated_at"})
				m.ExpectQuery(regexp.QuoteMeta(selectSnippetsSQL)).WillReturnRows(rows)
			},
			wantLen: 0,
		},
		{
			name: "query error",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectSnippetsSQL)).
					WillReturnError(errors.New("db query failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt // capture
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockSnippetRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			got, err := repo.List(context.Background())

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("expected %d snippets, got %d", tt.wantLen, len(got))
			}
			if tt.wantLen == 2 && (got[0].ID != "s-1" || got[1].ID != "s-2") {
				t.Fatalf("unexpected order: %q then %q", got[0].ID, got[1].ID)
			}
		})
	}
}

func TestSnippetRepository_Get(t *testing.T) {
	s := testSnippet()

	repo, mock, cleanup := newMockSnippetRepo(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "title", "code", "created_by", "created_at", "updated_at"}).
		AddRow(s.ID, s.Title, s.Code, s.CreatedBy, s.CreatedAt, s.UpdatedAt)
	mock.ExpectQuery(regexp.QuoteMeta(selectSnippetByIDSQL)).
		WithArgs(s.ID).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta(selectSnippetByIDSQL)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != s {
		t.Fatalf("unexpected snippet: %+v", got)
	}

	got, err = repo.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error for missing id: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing id, got %+v", got)
	}
}

func TestSnippetRepository_Update(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		mockExpect func(sqlmock.Sqlmock)
		wantRows   int64
		wantErr    bool
	}{
		{
			name: "one row matched",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(updateSnippetSQL)).
					WithArgs("new title", "new code", now, "s-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantRows: 1,
		},
		{
			name: "zero rows matched",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(updateSnippetSQL)).
					WithArgs("new title", "new code", now, "s-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantRows: 0,
		},
		{
			name: "exec error",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(updateSnippetSQL)).
					WithArgs("new title", "new code", now, "s-1").
					WillReturnError(errors.New("db exec failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt // capture
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockSnippetRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			n, err := repo.Update(context.Background(), "s-1", "new title", "new code", now)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != tt.wantRows {
				t.Fatalf("expected %d rows, got %d", tt.wantRows, n)
			}
		})
	}
}

func TestSnippetRepository_Delete_Idempotent(t *testing.T) {
	repo, mock, cleanup := newMockSnippetRepo(t)
	defer cleanup()

	// Zero rows affected is still success.
	mock.ExpectExec(regexp.QuoteMeta(deleteSnippetSQL)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}
