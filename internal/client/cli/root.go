package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := string(a.Mode())
	if user := a.user(); user != "" {
		s = user + " " + s
	}
	return fmt.Sprintf(" (%s)", s)
}

// Run restores the last session, reconciles the notebook once, then serves
// the REPL until ctx is done or the user exits.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to Grandma's Kitchen (type 'help' for commands)")

	a.restoreSession(ctx)
	// checkOnline reconciles by itself when a logged-in user is online.
	a.checkOnline(ctx)
	if a.Mode() == ModeOffline || !a.isLoggedIn() {
		a.reconcile(ctx)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
