// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/addrbook/addrbook/internal/model"
	"github.com/addrbook/addrbook/internal/service"
)

// TimestampLayout is the wire format of created_at (dd-MM-yyyy HH:mm:ss).
const TimestampLayout = "02-01-2006 15:04:05"

// AddressRequest represents an address in request bodies. It is used both
// inside a user creation payload and as the address update body.
type AddressRequest struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	CountryCode string `json:"country_code"`
}

// CreateUserRequest represents the request body for creating a user.
// Client-supplied id and created_at values are ignored.
type CreateUserRequest struct {
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Password  string           `json:"password"`
	Addresses []AddressRequest `json:"addresses"`
}

// PatchUserRequest represents the request body for a partial user update.
// Absent or null fields are left unchanged.
type PatchUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ToInput converts the request to service input.
func (r CreateUserRequest) ToInput() service.CreateUserInput {
	input := service.CreateUserInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
	for _, addr := range r.Addresses {
		input.Addresses = append(input.Addresses, service.AddressInput{
			Name:        addr.Name,
			Street:      addr.Street,
			CountryCode: addr.CountryCode,
		})
	}
	return input
}

// ToInput converts the request to service input for the given user.
func (r PatchUserRequest) ToInput(id int64) service.PatchUserInput {
	return service.PatchUserInput{
		ID:       id,
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}

// ToInput converts the request to service input for the given address.
func (r AddressRequest) ToInput(userID, addressID int64) service.UpdateAddressInput {
	return service.UpdateAddressInput{
		UserID:      userID,
		AddressID:   addressID,
		Name:        r.Name,
		Street:      r.Street,
		CountryCode: r.CountryCode,
	}
}

// AddressResponse represents an address in API responses. The owner is
// implied by the enclosing user and never serialized.
type AddressResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Street      string `json:"street"`
	CountryCode string `json:"country_code"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        int64             `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Password  string            `json:"password"`
	CreatedAt string            `json:"created_at"`
	Addresses []AddressResponse `json:"addresses"`
}

// ToAddressResponse converts a model.Address to AddressResponse.
func ToAddressResponse(addr model.Address) AddressResponse {
	return AddressResponse{
		ID:          addr.ID,
		Name:        addr.Name,
		Street:      addr.Street,
		CountryCode: addr.CountryCode,
	}
}

// ToAddressResponses converts a slice of addresses.
func ToAddressResponses(addresses []model.Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(addresses))
	for _, addr := range addresses {
		out = append(out, ToAddressResponse(addr))
	}
	return out
}

// ToUserResponse converts a model.User to UserResponse. created_at is
// rendered in the zone it was loaded in.
func ToUserResponse(user model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Password:  user.Password,
		CreatedAt: user.CreatedAt.Format(TimestampLayout),
		Addresses: ToAddressResponses(user.Addresses),
	}
}

// ToUserResponses converts a slice of users.
func ToUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, ToUserResponse(user))
	}
	return out
}
