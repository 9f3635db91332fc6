package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/circuitbreaker"
	"github.com/dmitrijs2005/gmkitchen/internal/client/notebooksync"
	"github.com/dmitrijs2005/gmkitchen/internal/client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	Client // unused methods panic

	session   Session
	rec       *notebooksync.RemoteRecord
	fetchErr  error
	upsertErr error
	upserted  []notebooksync.RemoteRecord
	fetches   int
}

func (f *fakeClient) Session() Session { return f.session }

func (f *fakeClient) FetchNotebook(context.Context) (*notebooksync.RemoteRecord, error) {
	f.fetches++
	return f.rec, f.fetchErr
}

func (f *fakeClient) UpsertNotebook(_ context.Context, rec notebooksync.RemoteRecord) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, rec)
	return nil
}

func TestRemoteNotebooks_Identity(t *testing.T) {
	ctx := context.Background()
	rec := notebooksync.RemoteRecord{Payload: "{}", Version: 1}

	tests := []struct {
		name     string
		session  Session
		identity string
		wantErr  error
	}{
		{"logged out", Session{}, "u1", ErrNotLoggedIn},
		{"other user", Session{UserID: "u2"}, "u1", ErrIdentityMismatch},
		{"same user", Session{UserID: "u1"}, "u1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeClient{session: tt.session, rec: &rec}
			r := NewRemoteNotebooks(f)

			got, fetchErr := r.FetchByIdentity(ctx, tt.identity)
			upsertErr := r.Upsert(ctx, tt.identity, rec)

			if tt.wantErr != nil {
				require.ErrorIs(t, fetchErr, tt.wantErr)
				require.ErrorIs(t, upsertErr, tt.wantErr)
				assert.Zero(t, f.fetches)
				assert.Empty(t, f.upserted)
				return
			}
			require.NoError(t, fetchErr)
			require.NoError(t, upsertErr)
			assert.Equal(t, &rec, got)
			assert.Equal(t, []notebooksync.RemoteRecord{rec}, f.upserted)
		})
	}
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func TestBreakerRemote_OpensOnOutage(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	f := &fakeClient{session: Session{UserID: "u1"}, fetchErr: ErrUnavailable}
	b := NewBreakerRemote(NewRemoteNotebooks(f), 2, time.Minute, circuitbreaker.WithClock(clk.Now))

	for i := 0; i < 2; i++ {
		_, err := b.FetchByIdentity(ctx, "u1")
		require.ErrorIs(t, err, ErrUnavailable)
	}
	require.Equal(t, circuitbreaker.Open, b.State())

	_, err := b.FetchByIdentity(ctx, "u1")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	require.Equal(t, 2, f.fetches, "open breaker does not call through")

	err = b.Upsert(ctx, "u1", notebooksync.RemoteRecord{Version: 1})
	require.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)

	clk.t = clk.t.Add(2 * time.Minute)
	f.fetchErr = nil
	f.rec = &notebooksync.RemoteRecord{Version: 3}
	rec, err := b.FetchByIdentity(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 3, rec.Version)
	require.Equal(t, circuitbreaker.Closed, b.State())
}

func TestBreakerRemote_IgnoresNonOutageErrors(t *testing.T) {
	ctx := context.Background()
	f := &fakeClient{session: Session{UserID: "u1"}, upsertErr: ErrUnauthorized}
	b := NewBreakerRemote(NewRemoteNotebooks(f), 1, time.Minute)

	require.ErrorIs(t, b.Upsert(ctx, "u1", notebooksync.RemoteRecord{}), ErrUnauthorized)
	_, err := b.FetchByIdentity(ctx, "someone-else")
	require.ErrorIs(t, err, ErrIdentityMismatch)
	require.Equal(t, circuitbreaker.Closed, b.State())

	f.upsertErr = context.DeadlineExceeded
	require.Error(t, b.Upsert(ctx, "u1", notebooksync.RemoteRecord{}))
	require.Equal(t, circuitbreaker.Open, b.State())
}

func TestBreakerRemote_DrivesSyncerToLocalOnly(t *testing.T) {
	ctx := context.Background()
	f := &fakeClient{session: Session{UserID: "u1"}, fetchErr: ErrUnavailable}
	b := NewBreakerRemote(NewRemoteNotebooks(f), 1, time.Hour)

	s := notebooksync.New(storage.NewMemoryStore(), b, nil)

	for i := 0; i < 3; i++ {
		res, err := s.Reconcile(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, notebooksync.ActionLocalOnly, res.Action)
		require.True(t, errors.Is(res.Fallback, notebooksync.ErrRemoteFetch))
	}
	require.Equal(t, 1, f.fetches)
}
