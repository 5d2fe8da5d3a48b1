package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore provides user account operations using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// FetchUser returns a user by id
func (s *UsersStore) FetchUser(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FetchUserByEmail returns a user by email, ignoring case
func (s *UsersStore) FetchUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// CreateUser inserts a user
func (s *UsersStore) CreateUser(ctx context.Context, u *model.User) error {
	return conflict(s.db.WithContext(ctx).Create(u).Error)
}
