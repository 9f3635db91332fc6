// Package circuitbreaker stops calling a failing dependency for a while so
// callers can fall back at once instead of waiting on every request.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State is the breaker state.
type State int

const (
	Closed   State = iota // calls pass through
	Open                  // calls are rejected with ErrCircuitOpen
	HalfOpen              // one probe call is let through
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned without calling fn while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type Option func(*Breaker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

// WithFailureFilter decides which errors count as failures. Errors it
// rejects are returned to the caller but leave the breaker untouched.
func WithFailureFilter(isFailure func(error) bool) Option {
	return func(b *Breaker) { b.isFailure = isFailure }
}

type Breaker struct {
	mu              sync.Mutex
	state           State
	failures        int
	maxFailures     int
	resetTimeout    time.Duration
	lastFailureTime time.Time
	probing         bool

	now       func() time.Time
	isFailure func(error) bool
}

// New creates a Breaker that opens after maxFailures consecutive failures
// and lets a probe through once resetTimeout has passed.
func New(maxFailures int, resetTimeout time.Duration, opts ...Option) *Breaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	b := &Breaker{
		state:        Closed,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		now:          time.Now,
		isFailure:    func(err error) bool { return err != nil },
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Execute runs fn unless the breaker is open or a half-open probe is
// already in flight.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.before(); err != nil {
		return err
	}

	err := fn()
	b.after(err)
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open && b.now().Sub(b.lastFailureTime) >= b.resetTimeout {
		b.state = HalfOpen
	}
	switch b.state {
	case Open:
		return ErrCircuitOpen
	case HalfOpen:
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) after(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasProbe := b.state == HalfOpen
	b.probing = false

	if err != nil && b.isFailure(err) {
		b.failures++
		b.lastFailureTime = b.now()
		if wasProbe || b.failures >= b.maxFailures {
			b.state = Open
		}
		return
	}

	b.failures = 0
	b.state = Closed
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
