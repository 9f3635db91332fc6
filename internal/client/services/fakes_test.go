package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gmkitchen/internal/client/client"
	"github.com/dmitrijs2005/gmkitchen/internal/client/notebooksync"
)

var errBoom = errors.New("boom")

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	RegisterID  string
	RegisterErr error

	GetSaltRet []byte
	GetSaltErr error

	LoginRet client.Session
	LoginErr error

	PingErr error

	Remote    *notebooksync.RemoteRecord
	FetchErr  error
	UpsertErr error
	Upserts   int

	LastRegisterUser     string
	LastRegisterSalt     []byte
	LastRegisterVerifier []byte
	LastGetSaltUser      string
	LastLoginUser        string
	LastLoginVerifier    []byte

	session client.Session
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Register(_ context.Context, username string, salt, verifier []byte) (string, error) {
	f.LastRegisterUser = username
	f.LastRegisterSalt = append([]byte(nil), salt...)
	f.LastRegisterVerifier = append([]byte(nil), verifier...)
	return f.RegisterID, f.RegisterErr
}

func (f *fakeClient) GetSalt(_ context.Context, username string) ([]byte, error) {
	f.LastGetSaltUser = username
	return append([]byte(nil), f.GetSaltRet...), f.GetSaltErr
}

func (f *fakeClient) Login(_ context.Context, username string, verifier []byte) (client.Session, error) {
	f.LastLoginUser = username
	f.LastLoginVerifier = append([]byte(nil), verifier...)
	if f.LoginErr != nil {
		return client.Session{}, f.LoginErr
	}
	f.RestoreSession(f.LoginRet)
	return f.LoginRet, nil
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) FetchNotebook(context.Context) (*notebooksync.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	if f.Remote == nil {
		return nil, nil
	}
	cp := *f.Remote
	return &cp, nil
}

func (f *fakeClient) UpsertNotebook(_ context.Context, rec notebooksync.RemoteRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpsertErr != nil {
		return f.UpsertErr
	}
	f.Upserts++
	f.Remote = &rec
	return nil
}

func (f *fakeClient) Session() client.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

func (f *fakeClient) RestoreSession(s client.Session) {
	f.mu.Lock()
	f.session = s
	f.mu.Unlock()
}
