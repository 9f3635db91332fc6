package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gmkitchen/internal/client/client"
	"github.com/dmitrijs2005/gmkitchen/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and creates an account.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Register(ctx, userName, password); err != nil {
		a.log.Warn(ctx, "registration failed", "error", err)
		if errors.Is(err, client.ErrAlreadyExists) {
			a.println("That username is taken.")
		} else {
			a.println("Registration failed:", err)
		}
		return err
	}

	a.println("Account created. You can log in now.")
	return nil
}

// Login prompts for credentials and signs in.
//
// If the server is unreachable it falls back to the credentials cached on
// this device by the last online login. After an online login the notebook
// is reconciled with the account.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	mode := ModeOnline
	_, err = a.auth.OnlineLogin(ctx, userName, password)
	if errors.Is(err, client.ErrUnavailable) {
		a.log.Info(ctx, "server unavailable, trying offline login")
		mode = ModeOffline
		_, err = a.auth.OfflineLogin(ctx, userName, password)
	}
	if err != nil {
		a.log.Warn(ctx, "login failed", "mode", mode, "error", err)
		a.println("Login failed:", err)
		return err
	}

	a.setUser(userName)
	a.setMode(mode)
	a.printf("Welcome, %s.\n", userName)

	if mode == ModeOnline {
		a.reconcile(ctx)
	} else {
		a.println("Working offline. Changes are saved on this device.")
	}
	return nil
}

// Logout forgets the session and cached credentials. The notebook stays on
// this device.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
		return err
	}
	a.setUser("")
	a.println("Logged out. Your notebook stays on this device.")
	return nil
}

// restoreSession picks up the session saved by a previous run, if any.
func (a *App) restoreSession(ctx context.Context) {
	s, err := a.auth.RestoreSession(ctx)
	if err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
		return
	}
	if s.Empty() {
		return
	}
	name, err := a.auth.Username(ctx)
	if err != nil || name == "" {
		a.log.Warn(ctx, "session without username", "error", err)
		return
	}
	a.setUser(name)
}
