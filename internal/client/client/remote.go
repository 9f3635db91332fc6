package client

import (
	"context"

	"github.com/dmitrijs2005/gmkitchen/internal/client/notebooksync"
)

// RemoteNotebooks serves notebooksync.RemoteStore from a Client. The server
// only knows the notebook of the logged-in user, so any other identity is
// refused with ErrIdentityMismatch.
type RemoteNotebooks struct {
	client Client
}

func NewRemoteNotebooks(c Client) *RemoteNotebooks {
	return &RemoteNotebooks{client: c}
}

func (r *RemoteNotebooks) FetchByIdentity(ctx context.Context, identity string) (*notebooksync.RemoteRecord, error) {
	if err := r.check(identity); err != nil {
		return nil, err
	}
	return r.client.FetchNotebook(ctx)
}

func (r *RemoteNotebooks) Upsert(ctx context.Context, identity string, rec notebooksync.RemoteRecord) error {
	if err := r.check(identity); err != nil {
		return err
	}
	return r.client.UpsertNotebook(ctx, rec)
}

func (r *RemoteNotebooks) check(identity string) error {
	s := r.client.Session()
	if s.Empty() {
		return ErrNotLoggedIn
	}
	if s.UserID != identity {
		return ErrIdentityMismatch
	}
	return nil
}
