package tokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const tokenID = "5f0c7a4e-3a0b-4a8e-9b1e-0c6d3c2b1a00"

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	q := `(?s)^INSERT\s+INTO\s+tokens\s*\(id,\s*user_id,\s*name,\s*token_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at\s*$`
	mock.ExpectQuery(q).
		WithArgs(tokenID, int64(1), "auth_token", "digest").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	got, err := repo.Create(context.Background(), &models.Token{ID: tokenID, UserID: 1, Name: "auth_token", Hash: "digest"})
	require.NoError(t, err)
	assert.Equal(t, now, got.CreatedAt)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+tokens`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Token{ID: tokenID})
	assert.ErrorContains(t, err, "db error: db down")
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*name,\s*token_hash,\s*created_at\s+FROM\s+tokens\s+WHERE\s+id\s*=\s*\$1\s*$`
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q).WithArgs(tokenID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "token_hash", "created_at"}).
			AddRow(tokenID, int64(3), "auth_token", "digest", now))
	mock.ExpectQuery(q).WithArgs(tokenID).WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background(), tokenID)
	require.NoError(t, err)
	assert.Equal(t, &models.Token{ID: tokenID, UserID: 3, Name: "auth_token", Hash: "digest", CreatedAt: now}, got)

	_, err = repo.Get(context.Background(), tokenID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeletes(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE FROM tokens WHERE id = \$1$`).WithArgs(tokenID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^DELETE FROM tokens WHERE user_id = \$1$`).WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`^DELETE FROM tokens WHERE user_id = \$1 AND id <> \$2$`).WithArgs(int64(3), tokenID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), tokenID), "deleting a missing token is not an error")
	require.NoError(t, repo.DeleteAllForUser(context.Background(), 3))
	require.NoError(t, repo.DeleteAllForUserExcept(context.Background(), 3, tokenID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletes_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE FROM tokens`).WillReturnError(errors.New("boom"))
	mock.ExpectExec(`^DELETE FROM tokens`).WillReturnError(errors.New("boom"))
	mock.ExpectExec(`^DELETE FROM tokens`).WillReturnError(errors.New("boom"))

	assert.ErrorContains(t, repo.Delete(context.Background(), tokenID), "db error: boom")
	assert.ErrorContains(t, repo.DeleteAllForUser(context.Background(), 3), "db error: boom")
	assert.ErrorContains(t, repo.DeleteAllForUserExcept(context.Background(), 3, tokenID), "db error: boom")
}
