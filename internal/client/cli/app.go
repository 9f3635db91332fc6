package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/circuitbreaker"
	"github.com/dmitrijs2005/gmkitchen/internal/client/client"
	"github.com/dmitrijs2005/gmkitchen/internal/client/config"
	"github.com/dmitrijs2005/gmkitchen/internal/client/notebooksync"
	"github.com/dmitrijs2005/gmkitchen/internal/client/services"
	"github.com/dmitrijs2005/gmkitchen/internal/client/storage"
	"github.com/dmitrijs2005/gmkitchen/internal/logging"
	"github.com/dmitrijs2005/gmkitchen/internal/notebook"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type authAPI interface {
	OnlineLogin(ctx context.Context, username string, password []byte) (client.Session, error)
	OfflineLogin(ctx context.Context, username string, password []byte) (client.Session, error)
	Register(ctx context.Context, username string, password []byte) (string, error)
	RestoreSession(ctx context.Context) (client.Session, error)
	Username(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type kitchenAPI interface {
	Add(ctx context.Context, loc notebook.Location, name string) (notebook.Item, services.Outcome, error)
	Remove(ctx context.Context, loc notebook.Location, id string) (services.Outcome, error)
	Clear(ctx context.Context) (services.Outcome, error)
	List(ctx context.Context, loc notebook.Location) ([]notebook.Item, error)
	Document(ctx context.Context) (notebook.Document, error)
	Reconcile(ctx context.Context) (notebooksync.Result, error)
}

type shoppingAPI interface {
	Toggle(ctx context.Context, name string) (bool, error)
	Remove(ctx context.Context, name string) error
	Contains(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

type breakerStater interface {
	State() circuitbreaker.State
}

type App struct {
	config   *config.Config
	log      logging.Logger
	auth     authAPI
	kitchen  kitchenAPI
	shopping shoppingAPI
	breaker  breakerStater
	reader   *bufio.Reader
	out      io.Writer
	closers  []func() error

	mu       sync.Mutex
	mode     Mode
	userName string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogFormat, c.LogLevel)

	store, err := storage.Open(ctx, storage.Kind(c.StoreKind), c.StorePath)
	if err != nil {
		return nil, fmt.Errorf("error opening local store: %w", err)
	}

	// auth is assigned below; the listener only fires after a login.
	var auth *services.AuthService
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr,
		client.WithCallTimeout(c.CallTimeout),
		client.WithSessionListener(func(s client.Session) {
			if err := auth.PersistSession(context.Background(), s); err != nil {
				log.Warn(context.Background(), "failed to save refreshed session", "error", err)
			}
		}),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	auth = services.NewAuthService(apiClient, store)

	remote := client.NewBreakerRemote(client.NewRemoteNotebooks(apiClient), c.BreakerMaxFailures, c.BreakerResetTimeout)
	syncer := notebooksync.New(store, remote, log.With("component", "notebooksync"),
		notebooksync.WithIdentityProvider(services.SessionIdentity(apiClient)),
	)

	return &App{
		config:   c,
		log:      log,
		auth:     auth,
		kitchen:  services.NewKitchenService(syncer),
		shopping: services.NewShoppingList(store),
		breaker:  remote,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		closers:  []func() error{apiClient.Close, store.Close},
		mode:     ModeOffline,
	}, nil
}

// Close releases the server connection and the local store.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// setMode reports whether the mode changed.
func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
	return changed
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) user() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName
}

func (a *App) isLoggedIn() bool {
	return a.user() != ""
}

// StartOnlineStatusWatcher pings the server every interval until ctx is
// done. When the server comes back and a user is logged in, the notebook is
// reconciled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.auth.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}

	if a.setMode(ModeOnline) && a.isLoggedIn() {
		a.reconcile(ctx)
	}
}

// reconcile syncs the notebook and tells the user what happened.
func (a *App) reconcile(ctx context.Context) {
	res, err := a.kitchen.Reconcile(ctx)
	if err != nil {
		a.log.Error(ctx, "reconcile failed", "error", err)
		a.println("Could not read the notebook on this device:", err)
		return
	}
	a.println(describeResult(res))
}

func describeResult(res notebooksync.Result) string {
	switch res.Action {
	case notebooksync.ActionCreatedRemote:
		return "Notebook saved to your account."
	case notebooksync.ActionPushedLocalToRemote:
		return "Synced: this device had the newest notebook."
	case notebooksync.ActionPulledRemoteToLocal:
		return "Synced: notebook updated from your account."
	case notebooksync.ActionNoChange:
		return "Notebook is up to date."
	default:
		if notebooksync.Degraded(res.Fallback) && !errors.Is(res.Fallback, notebooksync.ErrNoIdentity) {
			return "Restored from this device (sync unavailable)."
		}
		return "Restored from this device."
	}
}
