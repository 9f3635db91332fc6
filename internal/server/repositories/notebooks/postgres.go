package notebooks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gmkitchen/internal/common"
	"github.com/dmitrijs2005/gmkitchen/internal/dbx"
	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Notebook, error) {
	query := `
		SELECT payload, version, updated_at
		FROM notebooks
		WHERE user_id = $1
	`

	nb := &models.Notebook{UserID: userID}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&nb.Payload, &nb.Version, &nb.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return nb, nil
}

// Upsert does not compare versions: the client decides which copy wins.
func (r *PostgresRepository) Upsert(ctx context.Context, nb *models.Notebook) error {
	query := `
		INSERT INTO notebooks (user_id, payload, version, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    version = EXCLUDED.version,
		    updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, nb.UserID, nb.Payload, nb.Version, nb.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
