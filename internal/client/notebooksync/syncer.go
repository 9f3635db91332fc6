package notebooksync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/logging"
	"github.com/dmitrijs2005/gmkitchen/internal/notebook"
)

// Syncer reconciles and saves the notebook.
type Syncer struct {
	local    LocalStore
	remote   RemoteStore
	identity IdentityProvider
	log      logging.Logger
	now      func() time.Time
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// WithIdentityProvider sets the provider used by ReconcileSession and SaveSession.
func WithIdentityProvider(p IdentityProvider) Option {
	return func(s *Syncer) { s.identity = p }
}

// New builds a Syncer. remote may be nil, in which case every call is local-only.
func New(local LocalStore, remote RemoteStore, log logging.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		local:  local,
		remote: remote,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	return s
}

// Load returns the local document, or a fresh empty one when the device has
// none or its copy cannot be read.
func (s *Syncer) Load(ctx context.Context) (notebook.Document, error) {
	return s.loadLocal(ctx)
}

// Reconcile picks the canonical document between the local copy and the
// remote copy for identity, and writes it to whichever side is behind.
// An empty identity means signed out and never contacts the remote store.
func (s *Syncer) Reconcile(ctx context.Context, identity string) (Result, error) {
	local, err := s.loadLocal(ctx)
	if err != nil {
		return Result{}, err
	}

	if identity == "" {
		return localOnly(local, ErrNoIdentity), nil
	}
	if s.remote == nil {
		return localOnly(local, ErrNoRemote), nil
	}

	log := s.log.With("identity", identity)

	row, err := s.remote.FetchByIdentity(ctx, identity)
	if err != nil {
		log.Warn(ctx, "notebook fetch failed, staying local", "action", ActionLocalOnly, "error", err)
		return localOnly(local, fmt.Errorf("%w: %w", ErrRemoteFetch, err)), nil
	}

	if row == nil {
		return s.push(ctx, log, identity, local, max(1, local.Version), ActionCreatedRemote)
	}

	remote, err := s.decodeRemote(row)
	if err != nil {
		log.Warn(ctx, "remote notebook unreadable, overwriting with local", "error", err)
		return s.push(ctx, log, identity, local, max(1, local.Version), ActionPushedLocalToRemote)
	}

	if IsNewer(local, remote) {
		return s.push(ctx, log, identity, local, max(remote.Version+1, local.Version), ActionPushedLocalToRemote)
	}

	if err := s.archiveOnce(ctx); err != nil {
		return Result{}, err
	}
	if err := s.saveLocal(ctx, remote); err != nil {
		return Result{}, err
	}

	changed := !local.Inventory.Equal(remote.Inventory) || local.Version != remote.Version
	action := ActionNoChange
	if changed {
		action = ActionPulledRemoteToLocal
	}
	log.Debug(ctx, "notebook reconciled", "action", action, "version", remote.Version)

	return Result{
		Source:   SourceRemote,
		Document: remote,
		Changed:  changed,
		Action:   action,
	}, nil
}

// ReconcileSession is Reconcile for the identity reported by the configured
// IdentityProvider. A failed lookup counts as signed out.
func (s *Syncer) ReconcileSession(ctx context.Context) (Result, error) {
	identity, lookupErr := s.currentIdentity(ctx)
	if lookupErr != nil {
		local, err := s.loadLocal(ctx)
		if err != nil {
			return Result{}, err
		}
		return localOnly(local, lookupErr), nil
	}
	return s.Reconcile(ctx, identity)
}

// SaveUnified stores inv as the next version of the notebook. The local write
// always happens first; the remote push is attempted only for a non-empty
// identity and its failure is reported in SaveResult.Fallback.
func (s *Syncer) SaveUnified(ctx context.Context, inv notebook.Inventory, identity string) (SaveResult, error) {
	current, err := s.loadLocal(ctx)
	if err != nil {
		return SaveResult{}, err
	}

	next := current.Next(inv, s.now())
	next.Version = max(1, next.Version)

	if err := s.saveLocal(ctx, next); err != nil {
		return SaveResult{}, err
	}

	if identity == "" {
		return SaveResult{Document: next, Fallback: ErrNoIdentity}, nil
	}
	if s.remote == nil {
		return SaveResult{Document: next, Fallback: ErrNoRemote}, nil
	}

	if err := s.upsert(ctx, identity, next); err != nil {
		s.log.Warn(ctx, "notebook push failed, saved locally", "identity", identity, "version", next.Version, "error", err)
		return SaveResult{Document: next, Fallback: fmt.Errorf("%w: %w", ErrRemoteUpsert, err)}, nil
	}

	return SaveResult{Document: next, Pushed: true}, nil
}

// SaveSession is SaveUnified for the identity reported by the configured
// IdentityProvider.
func (s *Syncer) SaveSession(ctx context.Context, inv notebook.Inventory) (SaveResult, error) {
	identity, lookupErr := s.currentIdentity(ctx)
	res, err := s.SaveUnified(ctx, inv, identity)
	if err != nil {
		return res, err
	}
	if lookupErr != nil {
		res.Fallback = lookupErr
	}
	return res, nil
}

// IsNewer reports whether a should replace b. Higher version wins; equal
// versions fall back to the parsed timestamps; anything else, including an
// exact tie, favours b.
func IsNewer(a, b notebook.Document) bool {
	if a.Version != b.Version {
		return a.Version > b.Version
	}

	at, okA := a.UpdatedTime()
	bt, okB := b.UpdatedTime()
	if okA && okB && !at.Equal(bt) {
		return at.After(bt)
	}

	return false
}

// push archives the local copy, stamps it with version and writes it to
// the remote store and then back to the device.
func (s *Syncer) push(ctx context.Context, log logging.Logger, identity string, local notebook.Document, version int64, action Action) (Result, error) {
	if err := s.archiveOnce(ctx); err != nil {
		return Result{}, err
	}

	next := local.Stamp(version, s.now())

	if err := s.upsert(ctx, identity, next); err != nil {
		log.Warn(ctx, "notebook push failed, staying local", "action", action, "error", err)
		return localOnly(local, fmt.Errorf("%w: %w", ErrRemoteUpsert, err)), nil
	}

	if err := s.saveLocal(ctx, next); err != nil {
		return Result{}, err
	}

	log.Info(ctx, "notebook reconciled", "action", action, "version", next.Version)

	return Result{
		Source:   SourceRemote,
		Document: next,
		Changed:  true,
		Action:   action,
	}, nil
}

func (s *Syncer) upsert(ctx context.Context, identity string, doc notebook.Document) error {
	payload, err := notebook.Encode(doc)
	if err != nil {
		return err
	}
	return s.remote.Upsert(ctx, identity, RemoteRecord{
		Payload:   string(payload),
		Version:   doc.Version,
		UpdatedAt: doc.UpdatedAt,
	})
}

// decodeRemote normalises the payload and lets the row's own version and
// timestamp take precedence over the ones inside it.
func (s *Syncer) decodeRemote(row *RemoteRecord) (notebook.Document, error) {
	doc, err := notebook.DecodeDocument([]byte(row.Payload), s.now())
	if err != nil {
		return notebook.Document{}, err
	}
	if row.Version > 0 {
		doc.Version = row.Version
	}
	if row.UpdatedAt != "" {
		doc.UpdatedAt = row.UpdatedAt
	}
	return doc, nil
}

func (s *Syncer) loadLocal(ctx context.Context) (notebook.Document, error) {
	raw, err := s.local.Get(ctx, LocalKey)
	if err != nil {
		return notebook.Document{}, fmt.Errorf("read local notebook: %w", err)
	}
	if raw == nil {
		return notebook.Empty(s.now()), nil
	}

	doc, err := notebook.DecodeDocument(raw, s.now())
	if err != nil {
		s.log.Warn(ctx, "local notebook unreadable, starting empty", "error", err)
		return notebook.Empty(s.now()), nil
	}
	return doc, nil
}

func (s *Syncer) saveLocal(ctx context.Context, doc notebook.Document) error {
	b, err := notebook.Encode(doc)
	if err != nil {
		return err
	}
	if err := s.local.Set(ctx, LocalKey, b); err != nil {
		return fmt.Errorf("write local notebook: %w", err)
	}
	return nil
}

// archiveOnce copies the raw local value aside unless an archive exists.
func (s *Syncer) archiveOnce(ctx context.Context) error {
	existing, err := s.local.Get(ctx, ArchiveKey)
	if err != nil {
		return fmt.Errorf("read notebook archive: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	raw, err := s.local.Get(ctx, LocalKey)
	if err != nil {
		return fmt.Errorf("read local notebook: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	if err := s.local.Set(ctx, ArchiveKey, raw); err != nil {
		return fmt.Errorf("write notebook archive: %w", err)
	}
	return nil
}

func (s *Syncer) currentIdentity(ctx context.Context) (string, error) {
	if s.identity == nil {
		return "", nil
	}
	id, err := s.identity.CurrentIdentity(ctx)
	if err != nil {
		s.log.Warn(ctx, "identity lookup failed, treating as signed out", "error", err)
		return "", fmt.Errorf("%w: %w", ErrIdentityLookup, err)
	}
	return id, nil
}

func localOnly(doc notebook.Document, reason error) Result {
	return Result{
		Source:   SourceLocal,
		Document: doc,
		Action:   ActionLocalOnly,
		Fallback: reason,
	}
}

// Degraded reports whether err is one of the local-only fallback reasons.
func Degraded(err error) bool {
	return errors.Is(err, ErrNoIdentity) ||
		errors.Is(err, ErrIdentityLookup) ||
		errors.Is(err, ErrNoRemote) ||
		errors.Is(err, ErrRemoteFetch) ||
		errors.Is(err, ErrRemoteUpsert)
}
