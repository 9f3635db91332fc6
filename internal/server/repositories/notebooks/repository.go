// Package notebooks stores the one notebook each user keeps on the server.
package notebooks

import (
	"context"

	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user has no notebook yet.
	Get(ctx context.Context, userID string) (*models.Notebook, error)

	// Upsert replaces the user's notebook unconditionally.
	Upsert(ctx context.Context, nb *models.Notebook) error
}
