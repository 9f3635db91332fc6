package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gmkitchen/internal/common"
	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
)

const (
	insertQuery = `(?s)^\s*INSERT\s+INTO\s+users\s*\(username,\s*salt,\s*master_key_verifier\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`
	selectQuery = `(?s)^\s*SELECT\s+id,\s*username,\s*master_key_verifier,\s*salt,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertQuery).
		WithArgs("gran", []byte("salt"), []byte("verifier")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("42", created))

	got, err := repo.Create(context.Background(), &models.User{UserName: "gran", Salt: []byte("salt"), Verifier: []byte("verifier")})
	require.NoError(t, err)
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, "gran", got.UserName)
	assert.True(t, got.CreatedAt.Equal(created))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateUsername(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs("gran", []byte("s"), []byte("v")).
		WillReturnError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}))

	_, err := repo.Create(context.Background(), &models.User{UserName: "gran", Salt: []byte("s"), Verifier: []byte("v")})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs("gran", []byte("s"), []byte("v")).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "gran", Salt: []byte("s"), Verifier: []byte("v")})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestGetUserByLogin(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(selectQuery).WithArgs("gran").WillReturnRows(
					sqlmock.NewRows([]string{"id", "username", "master_key_verifier", "salt", "created_at"}).
						AddRow("u-1", "gran", []byte("ver"), []byte("salt"), time.Now()))
			},
			wantID: "u-1",
		},
		{
			name: "not found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(selectQuery).WithArgs("gran").WillReturnError(sql.ErrNoRows)
			},
			wantErr: common.ErrorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			tt.setup(mock)

			got, err := repo.GetUserByLogin(context.Background(), "gran")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, []byte("ver"), got.Verifier)
			assert.Equal(t, []byte("salt"), got.Salt)
		})
	}
}

func TestGetUserByLogin_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(selectQuery).WithArgs("gran").WillReturnError(errors.New("db err"))

	_, err := repo.GetUserByLogin(context.Background(), "gran")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}
