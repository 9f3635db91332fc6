// Package services contains the application services behind the kitchen CLI:
// account login (online and offline), notebook editing on top of
// notebooksync, and the device-local shopping list.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gmkitchen/internal/client/client"
	"github.com/dmitrijs2005/gmkitchen/internal/client/notebooksync"
	"github.com/dmitrijs2005/gmkitchen/internal/cryptox"
)

const (
	offlineKey = "auth.offline"
	sessionKey = "auth.session"
)

// KV is the slice of storage.Store the services need.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// offlineData is what OfflineLogin checks a password against.
type offlineData struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type savedSession struct {
	Username     string `json:"username"`
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService logs the user in against the server or, without a network,
// against the verifier cached by the last online login.
type AuthService struct {
	client client.Client
	store  KV
}

func NewAuthService(c client.Client, store KV) *AuthService {
	return &AuthService{client: c, store: store}
}

// OnlineLogin authenticates against the server and caches what a later
// OfflineLogin and RestoreSession need.
func (a *AuthService) OnlineLogin(ctx context.Context, username string, password []byte) (client.Session, error) {
	salt, err := a.client.GetSalt(ctx, username)
	if err != nil {
		return client.Session{}, fmt.Errorf("get salt error: %w", err)
	}

	verifier := cryptox.VerifierFromPassword(password, salt)

	s, err := a.client.Login(ctx, username, verifier)
	if err != nil {
		return client.Session{}, fmt.Errorf("login error: %w", err)
	}

	if err := a.putJSON(ctx, offlineKey, offlineData{Username: username, Salt: salt, Verifier: verifier}); err != nil {
		return client.Session{}, fmt.Errorf("offline data saving error: %w", err)
	}
	if err := a.saveSession(ctx, username, s); err != nil {
		return client.Session{}, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

// OfflineLogin checks password against the cached verifier. On success the
// saved session, if any, is restored into the client so sync can resume once
// the server is reachable.
func (a *AuthService) OfflineLogin(ctx context.Context, username string, password []byte) (client.Session, error) {
	var saved offlineData
	found, err := a.getJSON(ctx, offlineKey, &saved)
	if err != nil {
		return client.Session{}, err
	}
	if !found {
		return client.Session{}, client.ErrLocalDataNotAvailable
	}
	if saved.Username != username {
		return client.Session{}, client.ErrUnauthorized
	}

	if !cryptox.VerifiersEqual(saved.Verifier, cryptox.VerifierFromPassword(password, saved.Salt)) {
		return client.Session{}, client.ErrUnauthorized
	}

	return a.RestoreSession(ctx)
}

// Register creates an account on the server and returns its user id.
func (a *AuthService) Register(ctx context.Context, username string, password []byte) (string, error) {
	salt := cryptox.NewSalt()
	return a.client.Register(ctx, username, salt, cryptox.VerifierFromPassword(password, salt))
}

// RestoreSession loads the session saved by the last login and installs it
// in the client. It returns an empty session when none is saved.
func (a *AuthService) RestoreSession(ctx context.Context) (client.Session, error) {
	var saved savedSession
	found, err := a.getJSON(ctx, sessionKey, &saved)
	if err != nil {
		return client.Session{}, err
	}
	if !found {
		return client.Session{}, nil
	}

	s := client.Session{UserID: saved.UserID, AccessToken: saved.AccessToken, RefreshToken: saved.RefreshToken}
	a.client.RestoreSession(s)
	return s, nil
}

// Username returns the name of the account of the saved session.
func (a *AuthService) Username(ctx context.Context) (string, error) {
	var saved savedSession
	if _, err := a.getJSON(ctx, sessionKey, &saved); err != nil {
		return "", err
	}
	return saved.Username, nil
}

// PersistSession stores a session the client rotated on its own. It is meant
// to be the client's session listener.
func (a *AuthService) PersistSession(ctx context.Context, s client.Session) error {
	username, err := a.Username(ctx)
	if err != nil {
		return err
	}
	return a.saveSession(ctx, username, s)
}

// Logout forgets the session and the offline verifier. The notebook stays on
// the device.
func (a *AuthService) Logout(ctx context.Context) error {
	a.client.RestoreSession(client.Session{})
	return errors.Join(
		a.store.Delete(ctx, sessionKey),
		a.store.Delete(ctx, offlineKey),
	)
}

// Ping proxies a liveness check to the underlying client.
func (a *AuthService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *AuthService) saveSession(ctx context.Context, username string, s client.Session) error {
	return a.putJSON(ctx, sessionKey, savedSession{
		Username:     username,
		UserID:       s.UserID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	})
}

func (a *AuthService) putJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, b)
}

func (a *AuthService) getJSON(ctx context.Context, key string, v any) (bool, error) {
	b, err := a.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", client.ErrLocalDataNotAvailable, key, err)
	}
	return true, nil
}

// SessionIdentity reports the user id of c's current session, so the
// notebook syncs with whichever account is logged in.
func SessionIdentity(c client.Client) notebooksync.IdentityProvider {
	return notebooksync.IdentityFunc(func(context.Context) (string, error) {
		return c.Session().UserID, nil
	})
}
