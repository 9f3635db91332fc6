package notebooksync

import "context"

const (
	// LocalKey holds the live notebook document.
	LocalKey = "gmk_inventory_v1"
	// ArchiveKey holds a copy of the local document taken before the first
	// sync touched it. It is written at most once.
	ArchiveKey = "gmk_inventory_archived_v1"
)

// LocalStore is the device's durable key/value store.
// Get returns (nil, nil) when key is absent.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RemoteRecord is the server's row for one identity.
type RemoteRecord struct {
	Payload   string
	Version   int64
	UpdatedAt string
}

// RemoteStore keeps one notebook per identity. FetchByIdentity returns
// (nil, nil) when the identity has no notebook yet; Upsert overwrites.
type RemoteStore interface {
	FetchByIdentity(ctx context.Context, identity string) (*RemoteRecord, error)
	Upsert(ctx context.Context, identity string, rec RemoteRecord) error
}

// IdentityProvider reports the signed-in account. An empty identity means
// nobody is signed in.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (string, error)
}

// IdentityFunc adapts a function to IdentityProvider.
type IdentityFunc func(ctx context.Context) (string, error)

func (f IdentityFunc) CurrentIdentity(ctx context.Context) (string, error) {
	return f(ctx)
}
