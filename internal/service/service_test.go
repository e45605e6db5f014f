package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/addrbook/addrbook/internal/auth"
	"github.com/addrbook/addrbook/internal/metrics"
	"github.com/addrbook/addrbook/internal/model"
	"github.com/addrbook/addrbook/internal/repository"
)

var errStoreDown = errors.New("connection refused")

// failingStore fails every call with errStoreDown.
type failingStore struct{}

func (failingStore) ListUsers(context.Context) ([]model.User, error) { return nil, errStoreDown }
func (failingStore) SaveUser(context.Context, *model.User) (*model.User, error) {
	return nil, errStoreDown
}
func (failingStore) UpdateUserFields(context.Context, int64, model.UserPatch) (*model.User, error) {
	return nil, errStoreDown
}
func (failingStore) FindUserByID(context.Context, int64) (*model.User, error) {
	return nil, errStoreDown
}
func (failingStore) UserExists(context.Context, int64) (bool, error) { return false, errStoreDown }
func (failingStore) DeleteUser(context.Context, int64) error         { return errStoreDown }
func (failingStore) DeleteAllUsers(context.Context) error            { return errStoreDown }
func (failingStore) AddressesForUser(context.Context, int64) ([]model.Address, error) {
	return nil, errStoreDown
}
func (failingStore) FindAddressByID(context.Context, int64) (*model.Address, error) {
	return nil, errStoreDown
}
func (failingStore) SaveAddress(context.Context, *model.Address) (*model.Address, error) {
	return nil, errStoreDown
}

var _ Store = failingStore{}
var _ Store = (*repository.MemoryStore)(nil)
var _ Store = (*repository.Repository)(nil)

type fixture struct {
	store     *repository.MemoryStore
	users     *UserService
	addresses *AddressService
	recorder  *metrics.InMemoryRecorder
}

// newFixture returns services over a memory store whose clock advances one
// minute per insert.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	digester, err := auth.NewDigester(string(auth.DefaultAlgorithm))
	if err != nil {
		t.Fatalf("failed to create digester: %v", err)
	}

	tick := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := repository.NewMemory(repository.WithClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}))
	recorder := metrics.NewInMemory()

	return &fixture{
		store:     store,
		users:     NewUserService(store, digester, recorder),
		addresses: NewAddressService(store, recorder),
		recorder:  recorder,
	}
}

func (f *fixture) create(t *testing.T, email, name string, addresses ...AddressInput) *model.User {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), CreateUserInput{
		Email:     email,
		Name:      name,
		Password:  "1234",
		Addresses: addresses,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func strPtr(s string) *string {
	return &s
}
