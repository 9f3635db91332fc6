// Package refreshtokens declares the store of issued refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, valid until expiresAt.
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error

	// Find returns common.ErrorNotFound when token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes token. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes tokens that expired before now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
