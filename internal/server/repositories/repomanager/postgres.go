// Package repomanager hands out the server repositories bound to a DBTX and
// applies the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/gmkitchen/internal/dbx"
	"github.com/dmitrijs2005/gmkitchen/internal/server/migrations"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/notebooks"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Option customises a PostgresRepositoryManager.
type Option func(*PostgresRepositoryManager)

// WithNotebookStore makes Notebooks return store instead of the Postgres
// table. Writes to such a store do not join the caller's transaction.
func WithNotebookStore(store notebooks.Repository) Option {
	return func(m *PostgresRepositoryManager) { m.notebookStore = store }
}

type PostgresRepositoryManager struct {
	notebookStore notebooks.Repository
}

func NewPostgresRepositoryManager(opts ...Option) *PostgresRepositoryManager {
	m := &PostgresRepositoryManager{}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notebooks(db dbx.DBTX) notebooks.Repository {
	if m.notebookStore != nil {
		return m.notebookStore
	}
	return notebooks.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
