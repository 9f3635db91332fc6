package notebooksync

import (
	"errors"

	"github.com/dmitrijs2005/gmkitchen/internal/notebook"
)

// Source tells the caller which side is authoritative after a reconcile.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Action describes what a reconcile did.
type Action string

const (
	ActionLocalOnly           Action = "local-only"
	ActionCreatedRemote       Action = "created-remote"
	ActionPushedLocalToRemote Action = "pushed-local-to-remote"
	ActionPulledRemoteToLocal Action = "pulled-remote-to-local"
	ActionNoChange            Action = "no-change"
)

// Reasons a call degraded to local-only. Fallback errors wrap one of these.
var (
	ErrNoIdentity     = errors.New("no signed-in identity")
	ErrIdentityLookup = errors.New("identity lookup failed")
	ErrNoRemote       = errors.New("no remote store configured")
	ErrRemoteFetch    = errors.New("remote fetch failed")
	ErrRemoteUpsert   = errors.New("remote upsert failed")
)

// Result is the outcome of Reconcile.
type Result struct {
	Source   Source
	Document notebook.Document
	// Changed reports whether the canonical document differs from what the
	// device held before the call.
	Changed bool
	Action  Action
	// Fallback is nil unless the call degraded to local-only.
	Fallback error
}

// SaveResult is the outcome of SaveUnified.
type SaveResult struct {
	Document notebook.Document
	// Pushed is true when the remote copy was updated as well.
	Pushed   bool
	Fallback error
}
