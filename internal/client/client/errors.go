package client

import "errors"

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAlreadyExists         = errors.New("already exists")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
	ErrNotLoggedIn           = errors.New("not logged in")
	ErrIdentityMismatch      = errors.New("identity does not match the logged-in user")
)
