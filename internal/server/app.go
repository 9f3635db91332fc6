// Package server wires the notebook server together: Postgres pool,
// migrations, services, the gRPC endpoint and the admin HTTP endpoint.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/gmkitchen/internal/logging"
	"github.com/dmitrijs2005/gmkitchen/internal/server/admin"
	"github.com/dmitrijs2005/gmkitchen/internal/server/config"
	gs "github.com/dmitrijs2005/gmkitchen/internal/server/grpc"
	"github.com/dmitrijs2005/gmkitchen/internal/server/metrics"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/notebooks"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gmkitchen/internal/server/services"
)

type App struct {
	config           *config.Config
	logger           logging.Logger
	pool             *pgxpool.Pool
	db               *sql.DB
	registry         *prometheus.Registry
	metrics          *metrics.Metrics
	userService      *services.UserService
	notebookService  *services.NotebookService
	readinessTargets map[string]admin.Pinger
}

// NewApp connects to Postgres, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	pool, err := pgxpool.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)

	app := &App{
		config:           c,
		logger:           logger,
		pool:             pool,
		db:               db,
		registry:         prometheus.NewRegistry(),
		readinessTargets: map[string]admin.Pinger{"postgres": pool},
	}

	var opts []repomanager.Option
	if c.NotebookBackend == config.BackendS3 {
		store, err := notebooks.NewS3Repository(ctx, notebooks.S3Config{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		opts = append(opts, repomanager.WithNotebookStore(store))
	}

	rm := repomanager.NewPostgresRepositoryManager(opts...)
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewPoolCollector(map[string]metrics.PoolStatter{"main": pool}),
	)
	app.metrics = metrics.New(app.registry)
	app.userService = services.NewUserService(db, rm, c)
	app.notebookService = services.NewNotebookService(db, rm, app.metrics)

	logger.Info(ctx, "App initialised", "notebook_backend", c.NotebookBackend)
	return app, nil
}

// Close releases the database handles.
func (app *App) Close() {
	_ = app.db.Close()
	app.pool.Close()
}

// Run serves until SIGINT or SIGTERM, or until ctx is done.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	grpcLis, err := net.Listen("tcp", app.config.EndpointAddrGRPC)
	if err != nil {
		return err
	}
	adminLis, err := net.Listen("tcp", app.config.AdminAddr)
	if err != nil {
		_ = grpcLis.Close()
		return err
	}
	return app.Serve(ctx, grpcLis, adminLis)
}

// Serve runs the gRPC server, the admin server and the token janitor on
// the given listeners. The first failure stops the rest.
func (app *App) Serve(ctx context.Context, grpcLis, adminLis net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Info(ctx, "Starting app...")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				app.logger.Error(ctx, "component failed", "component", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancel()
			}
		}()
	}

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.notebookService,
		app.config.SecretKey, app.metrics.UnaryServerInterceptor())

	run("grpc", func(ctx context.Context) error { return grpcServer.Serve(ctx, grpcLis) })
	run("admin", func(ctx context.Context) error { return app.serveAdmin(ctx, adminLis) })
	run("token-janitor", app.purgeTokens)

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(errs...)
}

func (app *App) serveAdmin(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           admin.NewRouter(app.readinessTargets, app.registry, app.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting admin server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// purgeTokens deletes expired refresh tokens every TokenCleanupInterval.
// Failures are logged and retried on the next tick.
func (app *App) purgeTokens(ctx context.Context) error {
	if app.config.TokenCleanupInterval <= 0 {
		return nil
	}
	t := time.NewTicker(app.config.TokenCleanupInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			n, err := app.userService.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "refresh token cleanup failed", "error", err)
				continue
			}
			app.metrics.TokensPurged(n)
			if n > 0 {
				app.logger.Debug(ctx, "expired refresh tokens deleted", "count", n)
			}
		}
	}
}
