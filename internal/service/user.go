package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/addrbook/addrbook/internal/auth"
	"github.com/addrbook/addrbook/internal/metrics"
	"github.com/addrbook/addrbook/internal/model"
	"github.com/addrbook/addrbook/internal/repository"
)

// SortField names a user attribute the list can be ordered by.
type SortField string

// Sort fields.
const (
	SortByID        SortField = "id"
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
	SortByCreatedAt SortField = "created_at"
)

// ParseSortField maps a query value to a SortField. Missing or unknown
// values fall back to SortByID.
func ParseSortField(s string) SortField {
	switch f := SortField(s); f {
	case SortByName, SortByEmail, SortByCreatedAt:
		return f
	default:
		return SortByID
	}
}

// UserService handles user business logic.
type UserService struct {
	users    UserStore
	digester *auth.Digester
	metrics  metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, digester *auth.Digester, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		users:    users,
		digester: digester,
		metrics:  recorder,
	}
}

// ListUsersInput defines input for listing users.
type ListUsersInput struct {
	SortedBy string
	Order    string
}

// ListUsers returns every user ordered as requested. The sort is stable;
// "desc" (any case) reverses it, anything else is ascending.
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) ([]model.User, error) {
	defer s.observe(time.Now())

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	compare := userComparator(ParseSortField(input.SortedBy))
	if strings.EqualFold(input.Order, "desc") {
		asc := compare
		compare = func(a, b model.User) int { return asc(b, a) }
	}
	slices.SortStableFunc(users, compare)

	return users, nil
}

func userComparator(field SortField) func(a, b model.User) int {
	switch field {
	case SortByName:
		return func(a, b model.User) int { return cmp.Compare(a.Name, b.Name) }
	case SortByEmail:
		return func(a, b model.User) int { return cmp.Compare(a.Email, b.Email) }
	case SortByCreatedAt:
		return func(a, b model.User) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return func(a, b model.User) int { return cmp.Compare(a.ID, b.ID) }
	}
}

// AddressInput defines an address supplied inside a user creation payload.
type AddressInput struct {
	Name        string
	Street      string
	CountryCode string
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Email     string
	Name      string
	Password  string
	Addresses []AddressInput
}

// CreateUser digests the password and stores the user with its addresses
// atomically. Every address is owned by the new user.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	defer s.observe(time.Now())

	user := &model.User{
		Email:     input.Email,
		Name:      input.Name,
		Password:  s.digester.Digest(input.Password),
		Addresses: make([]model.Address, 0, len(input.Addresses)),
	}
	for _, addr := range input.Addresses {
		user.Addresses = append(user.Addresses, model.Address{
			Name:        addr.Name,
			Street:      addr.Street,
			CountryCode: addr.CountryCode,
		})
	}

	saved, err := s.users.SaveUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()

	return saved, nil
}

// PatchUserInput defines input for a partial user update. Nil fields are
// left unchanged.
type PatchUserInput struct {
	ID       int64
	Email    *string
	Name     *string
	Password *string
}

// PatchUser overrides only the supplied fields. The password is digested
// again; addresses and created_at are untouched.
func (s *UserService) PatchUser(ctx context.Context, input PatchUserInput) (*model.User, error) {
	defer s.observe(time.Now())

	patch := model.UserPatch{
		Email: input.Email,
		Name:  input.Name,
	}
	if input.Password != nil {
		digest := s.digester.Digest(*input.Password)
		patch.Password = &digest
	}

	saved, err := s.users.UpdateUserFields(ctx, input.ID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.metrics.IncUserUpdated()

	return saved, nil
}

// DeleteUser removes a user and its addresses. An absent user yields
// ErrUserMissing rather than ErrUserNotFound.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	defer s.observe(time.Now())

	exists, err := s.users.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserMissing
	}

	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserMissing
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.metrics.IncUserDeleted()

	return nil
}

func (s *UserService) observe(start time.Time) {
	s.metrics.ObserveStoreDuration(time.Since(start))
}
