package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gmkitchen/internal/common"
	"github.com/dmitrijs2005/gmkitchen/internal/dbx"
	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/notebooks"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	created   *models.User

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByLogin(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr    error
	createErr error

	createdFor     string
	createdExpires time.Time
	expiredBefore  time.Time
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID, _ string, expiresAt time.Time) error {
	f.createdFor, f.createdExpires = userID, expiresAt
	return f.createErr
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(context.Context, string) error { return f.delErr }

func (f *fakeRefreshRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.expiredBefore = now
	return 2, nil
}

type fakeNotebooks struct {
	rows   map[string]*models.Notebook
	getErr error
	putErr error
}

func (f *fakeNotebooks) Get(_ context.Context, userID string) (*models.Notebook, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	nb, ok := f.rows[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return nb, nil
}

func (f *fakeNotebooks) Upsert(_ context.Context, nb *models.Notebook) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.rows == nil {
		f.rows = map[string]*models.Notebook{}
	}
	f.rows[nb.UserID] = nb
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	n *fakeNotebooks
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) Notebooks(dbx.DBTX) notebooks.Repository         { return m.n }
