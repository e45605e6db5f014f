// Package repository provides database access layer.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors for repository operations.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrAddressNotFound      = errors.New("address not found")
	ErrAddressOwnerRequired = errors.New("address has no owner")
)

// Pool is the subset of *pgxpool.Pool the repository depends on.
// pgxmock pools satisfy it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// querier is implemented by both Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides database access methods.
type Repository struct {
	pool Pool
	now  func() time.Time
	loc  *time.Location
}

type options struct {
	maxConns int32
	minConns int32
	now      func() time.Time
	loc      *time.Location
}

// Option configures a store.
type Option func(*options)

// WithPoolSize sets the connection pool bounds. Ignored by the memory store.
func WithPoolSize(maxConns, minConns int32) Option {
	return func(o *options) {
		o.maxConns = maxConns
		o.minConns = minConns
	}
}

// WithClock sets the clock used to stamp created_at on insert.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLocation sets the time zone created_at values are expressed in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.loc = loc
	}
}

func buildOptions(opts []Option) options {
	o := options{
		maxConns: 10,
		minConns: 2,
		now:      time.Now,
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string, opts ...Option) (*Repository, error) {
	o := buildOptions(opts)

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = o.maxConns
	config.MinConns = o.minConns

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewFromPool(pool, opts...), nil
}

// NewFromPool wraps an existing pool.
func NewFromPool(pool Pool, opts ...Option) *Repository {
	o := buildOptions(opts)
	return &Repository{
		pool: pool,
		now:  o.now,
		loc:  o.loc,
	}
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// inTx runs fn inside a transaction, committing on success and rolling back
// when fn fails.
func (r *Repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// createdAt returns the insert timestamp in the configured zone.
// Postgres keeps microseconds, so the value is truncated to match what is read back.
func (r *Repository) createdAt() time.Time {
	return r.now().In(r.loc).Truncate(time.Microsecond)
}
