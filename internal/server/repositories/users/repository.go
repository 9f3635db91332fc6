// Package users declares the account repository used by the user service.
package users

import (
	"context"

	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound when no such user exists.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
