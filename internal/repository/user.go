package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/addrbook/addrbook/internal/model"
)

const userColumns = `id, email, name, password, created_at`

// ListUsers returns every user with its addresses, ordered by ID.
func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	if len(users) == 0 {
		return users, nil
	}

	byOwner, err := r.addressesByOwner(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Addresses = byOwner[users[i].ID]
	}

	return users, nil
}

// FindUserByID retrieves a user and its addresses.
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	addresses, err := listAddressesForUser(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}
	user.Addresses = addresses

	return user, nil
}

// UserExists reports whether a user with the given ID exists.
func (r *Repository) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// SaveUser inserts the user when it has no ID, otherwise updates it.
// Addresses are written in the same transaction. On update, stored addresses
// missing from the list are deleted. The saved copy is returned; the argument
// is not modified.
func (r *Repository) SaveUser(ctx context.Context, user *model.User) (*model.User, error) {
	saved := user.Clone()

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if saved.ID == 0 {
			return r.insertUser(ctx, tx, saved)
		}
		return r.updateUser(ctx, tx, saved)
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// UpdateUserFields overwrites only the columns set in patch. Address rows are
// never written; the returned user carries them as currently stored.
func (r *Repository) UpdateUserFields(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	query := `
		UPDATE users
		SET email = COALESCE($2, email),
			name = COALESCE($3, name),
			password = COALESCE($4, password)
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, id, patch.Email, patch.Name, patch.Password))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user fields: %w", err)
	}

	addresses, err := listAddressesForUser(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}
	user.Addresses = addresses

	return user, nil
}

// DeleteUser removes a user. Its addresses are removed by the foreign key cascade.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteAllUsers removes every user and, by cascade, every address.
func (r *Repository) DeleteAllUsers(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}

func (r *Repository) insertUser(ctx context.Context, tx pgx.Tx, user *model.User) error {
	query := `
		INSERT INTO users (email, name, password, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	createdAt := r.createdAt()
	if err := tx.QueryRow(ctx, query, user.Email, user.Name, user.Password, createdAt).Scan(&user.ID); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = createdAt

	user.AdoptAddresses()
	for i := range user.Addresses {
		if err := insertAddress(ctx, tx, &user.Addresses[i]); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) updateUser(ctx context.Context, tx pgx.Tx, user *model.User) error {
	query := `
		UPDATE users
		SET email = $2, name = $3, password = $4
		WHERE id = $1
		RETURNING created_at
	`

	var createdAt = user.CreatedAt
	err := tx.QueryRow(ctx, query, user.ID, user.Email, user.Name, user.Password).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	user.CreatedAt = createdAt.In(r.loc)

	keep := make([]int64, 0, len(user.Addresses))
	for _, addr := range user.Addresses {
		if addr.ID != 0 {
			keep = append(keep, addr.ID)
		}
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM addresses WHERE user_id = $1 AND NOT (id = ANY($2))`,
		user.ID, keep,
	); err != nil {
		return fmt.Errorf("failed to remove orphaned addresses: %w", err)
	}

	user.AdoptAddresses()
	for i := range user.Addresses {
		addr := &user.Addresses[i]
		if addr.ID == 0 {
			err = insertAddress(ctx, tx, addr)
		} else {
			err = updateOwnedAddress(ctx, tx, addr)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Password,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.In(r.loc)
	return &user, nil
}
