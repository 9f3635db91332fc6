package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("down")

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *clock { return &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)} }

func fail() error { return errDown }
func ok() error   { return nil }

func TestOpensAfterMaxFailures(t *testing.T) {
	c := newClock()
	b := New(3, time.Minute, WithClock(c.Now))

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, b.Execute(fail), errDown)
		assert.Equal(t, Closed, b.State())
	}
	assert.ErrorIs(t, b.Execute(fail), errDown)
	assert.Equal(t, Open, b.State())

	called := false
	err := b.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b := New(2, time.Minute)

	require.Error(t, b.Execute(fail))
	require.NoError(t, b.Execute(ok))
	require.Error(t, b.Execute(fail))
	assert.Equal(t, Closed, b.State())
}

func TestHalfOpenProbe(t *testing.T) {
	c := newClock()
	b := New(1, time.Minute, WithClock(c.Now))
	require.Error(t, b.Execute(fail))
	require.Equal(t, Open, b.State())

	c.Advance(30 * time.Second)
	assert.ErrorIs(t, b.Execute(ok), ErrCircuitOpen)

	t.Run("failed probe reopens", func(t *testing.T) {
		c.Advance(time.Minute)
		assert.ErrorIs(t, b.Execute(fail), errDown)
		assert.Equal(t, Open, b.State())
	})

	t.Run("successful probe closes", func(t *testing.T) {
		c.Advance(time.Minute)
		require.NoError(t, b.Execute(ok))
		assert.Equal(t, Closed, b.State())
	})
}

func TestHalfOpenAllowsSingleProbe(t *testing.T) {
	c := newClock()
	b := New(1, time.Minute, WithClock(c.Now))
	require.Error(t, b.Execute(fail))
	c.Advance(2 * time.Minute)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Execute(func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	assert.ErrorIs(t, b.Execute(ok), ErrCircuitOpen)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Closed, b.State())
}

func TestFailureFilter(t *testing.T) {
	ignored := errors.New("caller mistake")
	b := New(1, time.Minute, WithFailureFilter(func(err error) bool { return !errors.Is(err, ignored) }))

	assert.ErrorIs(t, b.Execute(func() error { return ignored }), ignored)
	assert.Equal(t, Closed, b.State())

	require.Error(t, b.Execute(fail))
	assert.Equal(t, Open, b.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
