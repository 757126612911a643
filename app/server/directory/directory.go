// Package directory stores user records for the handlers.
//
// Only FindByEmail loads the password hash; every other read omits it, the
// same way the API never returns it. FindByID always reads the database and is
// what role checks use; FindProfile may answer from the redis cache.
package directory

import (
	"context"
	"doc-editor/app/server/models"
	"errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type Directory interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindProfile(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]any) (*models.User, error)
	ListExcept(ctx context.Context, id string) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}
