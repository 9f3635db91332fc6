package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gmkitchen/internal/dbx"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/notebooks"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/users"
)

// RepositoryManager binds repositories to a handle, so the same service code
// runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	// Notebooks may ignore db when notebooks live outside Postgres.
	Notebooks(db dbx.DBTX) notebooks.Repository
}
