package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addrbook/addrbook/internal/model"
)

var errDatabaseConnection = errors.New("database connection error")

func newMockRepository(t *testing.T) (*Repository, pgxmock.PgxPoolIface, time.Time) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	repo := NewFromPool(mock,
		WithClock(func() time.Time { return fixed }),
		WithLocation(london),
	)

	return repo, mock, fixed.In(london)
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "email", "name", "password", "created_at"})
}

func addressRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "street", "country_code", "user_id"})
}

func TestRepository_SaveUser_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("user with addresses", func(t *testing.T) {
		repo, mock, createdAt := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("ada@example.com", "Ada", "digest", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))
		mock.ExpectQuery("INSERT INTO addresses").
			WithArgs("Home", "1 Main St", "GB", int64(12)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(100)))
		mock.ExpectQuery("INSERT INTO addresses").
			WithArgs("Work", "2 High St", "GB", int64(12)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(101)))
		mock.ExpectCommit()

		input := &model.User{
			Email:    "ada@example.com",
			Name:     "Ada",
			Password: "digest",
			Addresses: []model.Address{
				{Name: "Home", Street: "1 Main St", CountryCode: "GB"},
				{Name: "Work", Street: "2 High St", CountryCode: "GB"},
			},
		}

		saved, err := repo.SaveUser(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, int64(12), saved.ID)
		assert.True(t, saved.CreatedAt.Equal(createdAt))
		assert.Equal(t, "Europe/London", saved.CreatedAt.Location().String())
		require.Len(t, saved.Addresses, 2)
		assert.Equal(t, int64(100), saved.Addresses[0].ID)
		assert.Equal(t, int64(101), saved.Addresses[1].ID)
		for _, addr := range saved.Addresses {
			assert.Equal(t, int64(12), addr.UserID)
		}

		assert.Zero(t, input.ID, "argument must not be modified")

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("address insert failure rolls back", func(t *testing.T) {
		repo, mock, _ := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("ada@example.com", "Ada", "digest", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))
		mock.ExpectQuery("INSERT INTO addresses").
			WithArgs("Home", "1 Main St", "GB", int64(12)).
			WillReturnError(errDatabaseConnection)
		mock.ExpectRollback()

		_, err := repo.SaveUser(ctx, &model.User{
			Email:     "ada@example.com",
			Name:      "Ada",
			Password:  "digest",
			Addresses: []model.Address{{Name: "Home", Street: "1 Main St", CountryCode: "GB"}},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, errDatabaseConnection)
		assert.Contains(t, err.Error(), "failed to create address")

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		repo, mock, _ := newMockRepository(t)

		mock.ExpectBegin().WillReturnError(errDatabaseConnection)

		_, err := repo.SaveUser(ctx, &model.User{Email: "a@b.c"})

		require.ErrorIs(t, err, errDatabaseConnection)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_SaveUser_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates fields and syncs addresses", func(t *testing.T) {
		repo, mock, createdAt := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE users").
			WithArgs(int64(5), "new@example.com", "New", "digest").
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))
		mock.ExpectExec("DELETE FROM addresses WHERE user_id").
			WithArgs(int64(5), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec("UPDATE addresses").
			WithArgs(int64(40), int64(5), "Home", "1 Main St", "GB").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery("INSERT INTO addresses").
			WithArgs("Cabin", "Lake Rd", "CA", int64(5)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(41)))
		mock.ExpectCommit()

		saved, err := repo.SaveUser(ctx, &model.User{
			ID:       5,
			Email:    "new@example.com",
			Name:     "New",
			Password: "digest",
			Addresses: []model.Address{
				{ID: 40, Name: "Home", Street: "1 Main St", CountryCode: "GB", UserID: 5},
				{Name: "Cabin", Street: "Lake Rd", CountryCode: "CA"},
			},
		})
		require.NoError(t, err)

		assert.True(t, saved.CreatedAt.Equal(createdAt))
		require.Len(t, saved.Addresses, 2)
		assert.Equal(t, int64(41), saved.Addresses[1].ID)
		assert.Equal(t, int64(5), saved.Addresses[1].UserID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		repo, mock, _ := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE users").
			WithArgs(int64(99), "x@example.com", "X", "digest").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.SaveUser(ctx, &model.User{ID: 99, Email: "x@example.com", Name: "X", Password: "digest"})

		require.ErrorIs(t, err, ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("address owned by someone else", func(t *testing.T) {
		repo, mock, createdAt := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE users").
			WithArgs(int64(5), "a@example.com", "A", "digest").
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))
		mock.ExpectExec("DELETE FROM addresses WHERE user_id").
			WithArgs(int64(5), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec("UPDATE addresses").
			WithArgs(int64(77), int64(5), "Home", "St", "GB").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		_, err := repo.SaveUser(ctx, &model.User{
			ID:        5,
			Email:     "a@example.com",
			Name:      "A",
			Password:  "digest",
			Addresses: []model.Address{{ID: 77, Name: "Home", Street: "St", CountryCode: "GB"}},
		})

		require.ErrorIs(t, err, ErrAddressNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

// stringPtrArg matches a *string argument by value; a nil want matches nil.
type stringPtrArg struct {
	want *string
}

func (a stringPtrArg) Match(v any) bool {
	got, ok := v.(*string)
	if !ok {
		return false
	}
	if a.want == nil || got == nil {
		return a.want == nil && got == nil
	}
	return *a.want == *got
}

func TestRepository_UpdateUserFields(t *testing.T) {
	ctx := context.Background()

	t.Run("writes only user columns", func(t *testing.T) {
		repo, mock, createdAt := newMockRepository(t)

		name := "Ada L."
		patch := model.UserPatch{Name: &name}

		mock.ExpectQuery("UPDATE users").
			WithArgs(int64(7), stringPtrArg{}, stringPtrArg{want: &name}, stringPtrArg{}).
			WillReturnRows(userRows().AddRow(int64(7), "ada@example.com", "Ada L.", "digest", createdAt.UTC()))
		mock.ExpectQuery("SELECT (.+) FROM addresses WHERE user_id").
			WithArgs(int64(7)).
			WillReturnRows(addressRows().AddRow(int64(3), "Office", "9 New", "FR", int64(7)))

		user, err := repo.UpdateUserFields(ctx, 7, patch)
		require.NoError(t, err)

		assert.Equal(t, "Ada L.", user.Name)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "Europe/London", user.CreatedAt.Location().String())
		require.Len(t, user.Addresses, 1)
		assert.Equal(t, "Office", user.Addresses[0].Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		repo, mock, _ := newMockRepository(t)

		mock.ExpectQuery("UPDATE users").
			WithArgs(int64(7), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)

		name := "x"
		_, err := repo.UpdateUserFields(ctx, 7, model.UserPatch{Name: &name})
		assert.ErrorIs(t, err, ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, _ := newMockRepository(t)

		mock.ExpectQuery("UPDATE users").
			WithArgs(int64(7), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errDatabaseConnection)

		_, err := repo.UpdateUserFields(ctx, 7, model.UserPatch{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update user fields")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found with addresses", func(t *testing.T) {
		repo, mock, createdAt := newMockRepository(t)

		mock.ExpectQuery("SELECT id, email, name, password, created_at FROM users WHERE id").
			WithArgs(int64(3)).
			WillReturnRows(userRows().AddRow(int64(3), "ada@example.com", "Ada", "digest", createdAt.UTC()))
		mock.ExpectQuery("SELECT id, name, street, country_code, user_id FROM addresses WHERE user_id").
			WithArgs(int64(3)).
			WillReturnRows(addressRows().
				AddRow(int64(1), "Home", "1 Main St", "GB", int64(3)).
				AddRow(int64(2), "Work", "2 High St", "GB", int64(3)))

		user, err := repo.FindUserByID(ctx, 3)
		require.NoError(t, err)

		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, "Europe/London", user.CreatedAt.Location().String())
		require.Len(t, user.Addresses, 2)
		assert.Equal(t, "Work", user.Addresses[1].Name)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, _ := newMockRepository(t)

		mock.ExpectQuery("SELECT id, email, name, password, created_at FROM users WHERE id").
			WithArgs(int64(404)).
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.FindUserByID(ctx, 404)

		assert.Nil(t, user)
		require.ErrorIs(t, err, ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, _ := newMockRepository(t)

		mock.ExpectQuery("SELECT id, email, name, password, created_at FROM users WHERE id").
			WithArgs(int64(3)).
			WillReturnError(errDatabaseConnection)

		_, err := repo.FindUserByID(ctx, 3)

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserNotFound)
		assert.Contains(t, err.Error(), "failed to get user by ID")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("groups addresses by owner", func(t *testing.T) {
		repo, mock, createdAt := newMockRepository(t)

		mock.ExpectQuery("SELECT id, email, name, password, created_at FROM users ORDER BY id").
			WillReturnRows(userRows().
				AddRow(int64(1), "a@example.com", "A", "d1", createdAt).
				AddRow(int64(2), "b@example.com", "B", "d2", createdAt))
		mock.ExpectQuery("SELECT id, name, street, country_code, user_id FROM addresses ORDER BY user_id, id").
			WillReturnRows(addressRows().
				AddRow(int64(10), "Home", "St", "GB", int64(2)))

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)

		require.Len(t, users, 2)
		assert.Empty(t, users[0].Addresses)
		require.Len(t, users[1].Addresses, 1)
		assert.Equal(t, int64(10), users[1].Addresses[0].ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table skips address query", func(t *testing.T) {
		repo, mock, _ := newMockRepository(t)

		mock.ExpectQuery("SELECT id, email, name, password, created_at FROM users ORDER BY id").
			WillReturnRows(userRows())

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock, _ := newMockRepository(t)

		mock.ExpectQuery("SELECT id, email, name, password, created_at FROM users ORDER BY id").
			WillReturnError(errDatabaseConnection)

		_, err := repo.ListUsers(ctx)
		require.ErrorIs(t, err, errDatabaseConnection)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UserExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, mock, _ := newMockRepository(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("DELETE FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM users").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	exists, err := repo.UserExists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteUser(ctx, 7))
	require.ErrorIs(t, repo.DeleteUser(ctx, 7), ErrUserNotFound)
	require.NoError(t, repo.DeleteAllUsers(ctx))

	require.NoError(t, mock.ExpectationsWereMet())
}
