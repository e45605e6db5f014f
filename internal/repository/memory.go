package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/addrbook/addrbook/internal/model"
)

// MemoryStore is an in-process store with the same contract as Repository.
// It backs STORE_DRIVER=memory and the handler and service tests.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[int64]model.User // stored without addresses
	addresses     map[int64]model.Address
	nextUserID    int64
	nextAddressID int64
	now           func() time.Time
	loc           *time.Location
}

// NewMemory creates an empty MemoryStore.
func NewMemory(opts ...Option) *MemoryStore {
	o := buildOptions(opts)
	return &MemoryStore{
		users:     make(map[int64]model.User),
		addresses: make(map[int64]model.Address),
		now:       o.now,
		loc:       o.loc,
	}
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() {}

// ListUsers returns every user with its addresses, ordered by ID.
func (m *MemoryStore) ListUsers(ctx context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		u.Addresses = m.addressesFor(u.ID)
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

// FindUserByID retrieves a user and its addresses.
func (m *MemoryStore) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Addresses = m.addressesFor(id)
	return &u, nil
}

// UserExists reports whether a user with the given ID exists.
func (m *MemoryStore) UserExists(ctx context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.users[id]
	return ok, nil
}

// SaveUser inserts or updates a user and synchronizes its addresses.
func (m *MemoryStore) SaveUser(ctx context.Context, user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := user.Clone()

	var existing model.User
	if saved.ID != 0 {
		var ok bool
		if existing, ok = m.users[saved.ID]; !ok {
			return nil, ErrUserNotFound
		}
	}

	// Validate before mutating so a failed save leaves the store untouched.
	for _, addr := range saved.Addresses {
		if addr.ID == 0 {
			continue
		}
		if stored, ok := m.addresses[addr.ID]; !ok || saved.ID == 0 || stored.UserID != saved.ID {
			return nil, ErrAddressNotFound
		}
	}

	if saved.ID == 0 {
		m.nextUserID++
		saved.ID = m.nextUserID
		saved.CreatedAt = m.now().In(m.loc)
	} else {
		saved.CreatedAt = existing.CreatedAt

		keep := make(map[int64]bool, len(saved.Addresses))
		for _, addr := range saved.Addresses {
			keep[addr.ID] = true
		}
		for id, addr := range m.addresses {
			if addr.UserID == saved.ID && !keep[id] {
				delete(m.addresses, id)
			}
		}
	}

	saved.AdoptAddresses()
	for i := range saved.Addresses {
		addr := &saved.Addresses[i]
		if addr.ID == 0 {
			m.nextAddressID++
			addr.ID = m.nextAddressID
		}
		m.addresses[addr.ID] = *addr
	}

	stored := *saved
	stored.Addresses = nil
	m.users[saved.ID] = stored

	return saved, nil
}

// UpdateUserFields overwrites only the fields set in patch and leaves the
// user's addresses alone.
func (m *MemoryStore) UpdateUserFields(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	patch.Apply(&u)
	m.users[id] = u

	u.Addresses = m.addressesFor(id)
	return &u, nil
}

// DeleteUser removes a user and its addresses.
func (m *MemoryStore) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	for addrID, addr := range m.addresses {
		if addr.UserID == id {
			delete(m.addresses, addrID)
		}
	}
	return nil
}

// DeleteAllUsers removes every user and address.
func (m *MemoryStore) DeleteAllUsers(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[int64]model.User)
	m.addresses = make(map[int64]model.Address)
	return nil
}

// AddressesForUser returns the addresses owned by a user, ordered by ID.
func (m *MemoryStore) AddressesForUser(ctx context.Context, userID int64) ([]model.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.addressesFor(userID), nil
}

// FindAddressByID retrieves a single address.
func (m *MemoryStore) FindAddressByID(ctx context.Context, id int64) (*model.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	addr, ok := m.addresses[id]
	if !ok {
		return nil, ErrAddressNotFound
	}
	return &addr, nil
}

// SaveAddress inserts or updates an address. The owner of an existing
// address is kept as stored.
func (m *MemoryStore) SaveAddress(ctx context.Context, addr *model.Address) (*model.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *addr
	if saved.ID == 0 {
		if _, ok := m.users[saved.UserID]; !ok {
			return nil, ErrAddressOwnerRequired
		}
		m.nextAddressID++
		saved.ID = m.nextAddressID
	} else {
		existing, ok := m.addresses[saved.ID]
		if !ok {
			return nil, ErrAddressNotFound
		}
		saved.UserID = existing.UserID
	}

	m.addresses[saved.ID] = saved
	return &saved, nil
}

// addressesFor must be called with mu held.
func (m *MemoryStore) addressesFor(userID int64) []model.Address {
	var out []model.Address
	for _, addr := range m.addresses {
		if addr.UserID == userID {
			out = append(out, addr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
