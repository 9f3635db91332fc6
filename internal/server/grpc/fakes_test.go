package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/common"
	"github.com/dmitrijs2005/gmkitchen/internal/logging"
	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
	"github.com/dmitrijs2005/gmkitchen/internal/server/services"
)

type fakeUser struct {
	refreshResp *services.TokenPair
	refreshErr  error

	regResp *models.User
	regErr  error

	saltResp []byte
	saltErr  error

	loginResp *services.TokenPair
	loginErr  error
	gotLogin  string
}

func (f *fakeUser) RefreshToken(context.Context, string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

func (f *fakeUser) Register(context.Context, string, []byte, []byte) (*models.User, error) {
	return f.regResp, f.regErr
}

func (f *fakeUser) GetSalt(context.Context, string) ([]byte, error) {
	return f.saltResp, f.saltErr
}

func (f *fakeUser) Login(_ context.Context, username string, _ []byte) (*services.TokenPair, error) {
	f.gotLogin = username
	return f.loginResp, f.loginErr
}

type fakeNotebooks struct {
	rows   map[string]*models.Notebook
	getErr error
	putErr error
}

func (f *fakeNotebooks) Fetch(_ context.Context, userID string) (*models.Notebook, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	nb, ok := f.rows[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return nb, nil
}

func (f *fakeNotebooks) Upsert(_ context.Context, userID, payload string, version int64, updatedAt string) error {
	if f.putErr != nil {
		return f.putErr
	}
	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return common.ErrorInvalidArgument
	}
	if f.rows == nil {
		f.rows = map[string]*models.Notebook{}
	}
	f.rows[userID] = &models.Notebook{UserID: userID, Payload: payload, Version: version, UpdatedAt: ts}
	return nil
}

func newServer(u *fakeUser, n *fakeNotebooks) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Discard(), u, n, "secret")
}

func nopLogger() logging.Logger { return logging.Discard() }
