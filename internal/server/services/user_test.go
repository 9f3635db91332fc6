package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gmkitchen/internal/common"
	"github.com/dmitrijs2005/gmkitchen/internal/cryptox"
	"github.com/dmitrijs2005/gmkitchen/internal/server/auth"
	"github.com/dmitrijs2005/gmkitchen/internal/server/config"
	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newUserService(t *testing.T, rm *fakeRepoManager) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	if rm.r == nil {
		rm.r = &fakeRefreshRepo{}
	}
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	s := NewUserService(db, rm, cfg)
	s.now = func() time.Time { return fixedNow }
	return s, mock
}

func TestRegister(t *testing.T) {
	t.Run("trims and stores", func(t *testing.T) {
		u := &fakeUsersRepo{createOut: &models.User{ID: "42", UserName: "gran"}}
		s, _ := newUserService(t, &fakeRepoManager{u: u})

		got, err := s.Register(context.Background(), "  gran ", []byte("s"), []byte("v"))
		require.NoError(t, err)
		assert.Equal(t, "42", got.ID)
		assert.Equal(t, "gran", u.created.UserName)
	})

	t.Run("invalid input", func(t *testing.T) {
		s, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{}})
		for _, in := range []struct {
			name       string
			salt, veri []byte
		}{
			{"  ", []byte("s"), []byte("v")},
			{"gran", nil, []byte("v")},
			{"gran", []byte("s"), nil},
		} {
			_, err := s.Register(context.Background(), in.name, in.salt, in.veri)
			assert.ErrorIs(t, err, common.ErrorInvalidArgument)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		s, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrorAlreadyExists}})
		_, err := s.Register(context.Background(), "gran", []byte("s"), []byte("v"))
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	})

	t.Run("db error is wrapped", func(t *testing.T) {
		s, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{createErr: errBoom{}}})
		_, err := s.Register(context.Background(), "gran", []byte("s"), []byte("v"))
		require.Error(t, err)
		assert.Regexp(t, `error creating user: .*boom`, err.Error())
	})
}

func TestGetSalt(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getOut: &models.User{Salt: []byte("SALT")}}})
	salt, err := s.GetSalt(context.Background(), "gran")
	require.NoError(t, err)
	assert.Equal(t, []byte("SALT"), salt)

	nf, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}})
	a, err := nf.GetSalt(context.Background(), "ghost")
	require.NoError(t, err)
	b, err := nf.GetSalt(context.Background(), "ghost")
	require.NoError(t, err)
	c, err := nf.GetSalt(context.Background(), "other-ghost")
	require.NoError(t, err)
	assert.Len(t, a, cryptox.SaltSize)
	assert.Equal(t, a, b, "fake salt must be stable")
	assert.NotEqual(t, a, c)

	broken, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom{}}})
	_, err = broken.GetSalt(context.Background(), "x")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		users    *fakeUsersRepo
		refresh  *fakeRefreshRepo
		verifier string
		wantErr  error
	}{
		{"unknown user", &fakeUsersRepo{getErr: common.ErrorNotFound}, nil, "x", common.ErrorUnauthorized},
		{"lookup failure", &fakeUsersRepo{getErr: errBoom{}}, nil, "x", common.ErrorInternal},
		{"wrong verifier", &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}}, nil, "wrong", common.ErrorUnauthorized},
		{"token store failure", &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}}, &fakeRefreshRepo{createErr: errBoom{}}, "right", common.ErrorInternal},
		{"ok", &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}}, nil, "right", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := &fakeRepoManager{u: tt.users, r: tt.refresh}
			s, _ := newUserService(t, rm)

			pair, err := s.Login(context.Background(), "gran", []byte(tt.verifier))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", pair.UserID)
			assert.NotEmpty(t, pair.RefreshToken)
			assert.Equal(t, "u1", rm.r.createdFor)
			assert.Equal(t, fixedNow.Add(2*time.Hour), rm.r.createdExpires)

			uid, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
			require.NoError(t, err)
			assert.Equal(t, "u1", uid)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	live := &models.RefreshToken{UserID: "u1", Expires: fixedNow.Add(10 * time.Minute)}

	t.Run("rotates inside a transaction", func(t *testing.T) {
		s, mock := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{findOut: live}})
		mock.ExpectBegin()
		mock.ExpectCommit()

		pair, err := s.RefreshToken(context.Background(), "r")
		require.NoError(t, err)
		assert.Equal(t, "u1", pair.UserID)
		assert.NotEmpty(t, pair.AccessToken)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired", func(t *testing.T) {
		old := &models.RefreshToken{UserID: "u1", Expires: fixedNow.Add(-time.Minute)}
		s, _ := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{findOut: old}})
		_, err := s.RefreshToken(context.Background(), "r")
		assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
	})

	t.Run("unknown token", func(t *testing.T) {
		s, _ := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{findErr: common.ErrorNotFound}})
		_, err := s.RefreshToken(context.Background(), "r")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("find error", func(t *testing.T) {
		s, _ := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{findErr: errBoom{}}})
		_, err := s.RefreshToken(context.Background(), "r")
		require.Error(t, err)
		assert.Regexp(t, `error searching refresh token: .*boom`, err.Error())
	})

	t.Run("delete error rolls back", func(t *testing.T) {
		s, mock := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{findOut: live, delErr: errBoom{}}})
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := s.RefreshToken(context.Background(), "r")
		require.Error(t, err)
		assert.Regexp(t, `error deleting refresh token: .*boom`, err.Error())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create error rolls back", func(t *testing.T) {
		s, mock := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{findOut: live, createErr: errBoom{}}})
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := s.RefreshToken(context.Background(), "r")
		assert.ErrorIs(t, err, common.ErrorInternal)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPurgeExpiredTokens(t *testing.T) {
	rm := &fakeRepoManager{r: &fakeRefreshRepo{}}
	s, _ := newUserService(t, rm)

	n, err := s.PurgeExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, fixedNow, rm.r.expiredBefore)
}
