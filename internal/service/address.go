package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/addrbook/addrbook/internal/metrics"
	"github.com/addrbook/addrbook/internal/model"
	"github.com/addrbook/addrbook/internal/repository"
)

// AddressService handles address business logic.
type AddressService struct {
	addresses AddressStore
	metrics   metrics.Recorder
}

// NewAddressService creates a new AddressService.
func NewAddressService(addresses AddressStore, recorder metrics.Recorder) *AddressService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AddressService{
		addresses: addresses,
		metrics:   recorder,
	}
}

// ListAddresses returns the addresses owned by a user, ordered by ID.
func (s *AddressService) ListAddresses(ctx context.Context, userID int64) ([]model.Address, error) {
	defer s.observe(time.Now())

	addresses, err := s.addresses.AddressesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// UpdateAddressInput defines input for replacing an address's fields.
type UpdateAddressInput struct {
	UserID      int64
	AddressID   int64
	Name        string
	Street      string
	CountryCode string
}

// UpdateAddress overwrites name, street and country code of an address
// owned by input.UserID. The owner itself is never changed.
func (s *AddressService) UpdateAddress(ctx context.Context, input UpdateAddressInput) (*model.Address, error) {
	defer s.observe(time.Now())

	addr, err := s.addresses.FindAddressByID(ctx, input.AddressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	if !addr.OwnedBy(input.UserID) {
		return nil, ErrOwnershipMismatch
	}

	addr.Name = input.Name
	addr.Street = input.Street
	addr.CountryCode = input.CountryCode

	saved, err := s.addresses.SaveAddress(ctx, addr)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	s.metrics.IncAddressUpdated()

	return saved, nil
}

func (s *AddressService) observe(start time.Time) {
	s.metrics.ObserveStoreDuration(time.Since(start))
}
