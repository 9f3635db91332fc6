package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/circuitbreaker"
	"github.com/dmitrijs2005/gmkitchen/internal/client/notebooksync"
)

// BreakerRemote guards a RemoteStore with a circuit breaker. Only outages
// (ErrUnavailable, deadline exceeded) trip it; auth and identity errors pass
// through without counting.
type BreakerRemote struct {
	next notebooksync.RemoteStore
	cb   *circuitbreaker.Breaker
}

func NewBreakerRemote(next notebooksync.RemoteStore, maxFailures int, resetTimeout time.Duration, opts ...circuitbreaker.Option) *BreakerRemote {
	opts = append([]circuitbreaker.Option{circuitbreaker.WithFailureFilter(isOutage)}, opts...)
	return &BreakerRemote{
		next: next,
		cb:   circuitbreaker.New(maxFailures, resetTimeout, opts...),
	}
}

func (b *BreakerRemote) FetchByIdentity(ctx context.Context, identity string) (*notebooksync.RemoteRecord, error) {
	var rec *notebooksync.RemoteRecord
	err := b.execute(func() error {
		var err error
		rec, err = b.next.FetchByIdentity(ctx, identity)
		return err
	})
	return rec, err
}

func (b *BreakerRemote) Upsert(ctx context.Context, identity string, rec notebooksync.RemoteRecord) error {
	return b.execute(func() error {
		return b.next.Upsert(ctx, identity, rec)
	})
}

func (b *BreakerRemote) State() circuitbreaker.State {
	return b.cb.State()
}

func (b *BreakerRemote) execute(fn func() error) error {
	err := b.cb.Execute(fn)
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

func isOutage(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, context.DeadlineExceeded)
}
