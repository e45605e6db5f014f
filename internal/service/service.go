// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"

	"github.com/addrbook/addrbook/internal/model"
)

// Service errors.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrAddressNotFound   = errors.New("address not found")
	ErrOwnershipMismatch = errors.New("address does not belong to user")
	ErrUserMissing       = errors.New("user does not exist")
)

// UserStore persists users together with their addresses.
type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	SaveUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUserFields(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)
	FindUserByID(ctx context.Context, id int64) (*model.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	DeleteUser(ctx context.Context, id int64) error
	DeleteAllUsers(ctx context.Context) error
}

// AddressStore persists addresses.
type AddressStore interface {
	AddressesForUser(ctx context.Context, userID int64) ([]model.Address, error)
	FindAddressByID(ctx context.Context, id int64) (*model.Address, error)
	SaveAddress(ctx context.Context, addr *model.Address) (*model.Address, error)
}

// Store is implemented by repository.Repository and repository.MemoryStore.
type Store interface {
	UserStore
	AddressStore
}
