package client

import (
	"context"

	"github.com/dmitrijs2005/gmkitchen/internal/client/notebooksync"
)

// Session is the server-issued identity and token pair of a logged-in user.
type Session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// Empty reports whether nobody is logged in.
func (s Session) Empty() bool {
	return s.UserID == ""
}

type Client interface {
	Close() error
	Register(ctx context.Context, username string, salt []byte, verifier []byte) (string, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (Session, error)
	Ping(ctx context.Context) error
	// FetchNotebook returns (nil, nil) when the user has no notebook yet.
	FetchNotebook(ctx context.Context) (*notebooksync.RemoteRecord, error)
	UpsertNotebook(ctx context.Context, rec notebooksync.RemoteRecord) error
	Session() Session
	RestoreSession(s Session)
}
