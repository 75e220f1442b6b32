// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/krishirakshak/krishirakshak/internal/server/models"
)

// Repository persists users. Create returns common.ErrorAlreadyExists when
// the email is taken; GetByEmail returns common.ErrorNotFound when absent.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
