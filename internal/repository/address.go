package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/addrbook/addrbook/internal/model"
)

const addressColumns = `id, name, street, country_code, user_id`

// AddressesForUser returns the addresses owned by a user, ordered by ID.
// An unknown user yields an empty list, not an error.
func (r *Repository) AddressesForUser(ctx context.Context, userID int64) ([]model.Address, error) {
	return listAddressesForUser(ctx, r.pool, userID)
}

// FindAddressByID retrieves a single address.
func (r *Repository) FindAddressByID(ctx context.Context, id int64) (*model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`

	addr, err := scanAddress(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get address by ID: %w", err)
	}

	return addr, nil
}

// SaveAddress inserts the address when it has no ID, otherwise updates its
// name, street and country code. The owner of an existing address is never
// changed here.
func (r *Repository) SaveAddress(ctx context.Context, addr *model.Address) (*model.Address, error) {
	saved := *addr

	var err error
	if saved.ID == 0 {
		err = insertAddress(ctx, r.pool, &saved)
	} else {
		err = updateAddress(ctx, r.pool, &saved)
	}
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func insertAddress(ctx context.Context, q querier, addr *model.Address) error {
	if addr.UserID == 0 {
		return ErrAddressOwnerRequired
	}

	query := `
		INSERT INTO addresses (name, street, country_code, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := q.QueryRow(ctx, query, addr.Name, addr.Street, addr.CountryCode, addr.UserID).Scan(&addr.ID); err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

func updateAddress(ctx context.Context, q querier, addr *model.Address) error {
	query := `
		UPDATE addresses
		SET name = $2, street = $3, country_code = $4
		WHERE id = $1
		RETURNING user_id
	`

	err := q.QueryRow(ctx, query, addr.ID, addr.Name, addr.Street, addr.CountryCode).Scan(&addr.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("failed to update address: %w", err)
	}

	return nil
}

// updateOwnedAddress updates an address only if it already belongs to addr.UserID.
func updateOwnedAddress(ctx context.Context, q querier, addr *model.Address) error {
	query := `
		UPDATE addresses
		SET name = $3, street = $4, country_code = $5
		WHERE id = $1 AND user_id = $2
	`

	result, err := q.Exec(ctx, query, addr.ID, addr.UserID, addr.Name, addr.Street, addr.CountryCode)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAddressNotFound
	}

	return nil
}

func listAddressesForUser(ctx context.Context, q querier, userID int64) ([]model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY id`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []model.Address
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, *addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// addressesByOwner loads every address grouped by owner ID.
func (r *Repository) addressesByOwner(ctx context.Context) (map[int64][]model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses ORDER BY user_id, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	byOwner := make(map[int64][]model.Address)
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		byOwner[addr.UserID] = append(byOwner[addr.UserID], *addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return byOwner, nil
}

func scanAddress(row pgx.Row) (*model.Address, error) {
	var addr model.Address
	err := row.Scan(
		&addr.ID,
		&addr.Name,
		&addr.Street,
		&addr.CountryCode,
		&addr.UserID,
	)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}
