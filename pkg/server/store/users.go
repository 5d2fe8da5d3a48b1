package store

import (
	"context"

	"github.com/otwartedane/mcod/pkg/model"
)

// UsersStore abstracts user account storage
type UsersStore interface {
	// FetchUser returns a user by id, or ErrNotFound
	FetchUser(ctx context.Context, id uint) (*model.User, error)

	// FetchUserByEmail returns a user by case-insensitive email, or ErrNotFound
	FetchUserByEmail(ctx context.Context, email string) (*model.User, error)

	// CreateUser inserts a user. Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, u *model.User) error
}
