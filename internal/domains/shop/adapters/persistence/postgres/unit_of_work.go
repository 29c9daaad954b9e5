package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// DefaultMaxAttempts bounds how often a unit of work is replayed after a serialization failure or deadlock.
const DefaultMaxAttempts = 3

// UnitOfWork runs each unit in a database transaction. Do loads items and
// orders with row locks so concurrent writers to the same stock queue up.
type UnitOfWork struct {
	db          *gorm.DB
	maxAttempts int
	logger      *slog.Logger
}

// Option customises the unit of work.
type Option func(*UnitOfWork)

// WithMaxAttempts sets how many times a unit is tried in total.
func WithMaxAttempts(n int) Option {
	return func(u *UnitOfWork) {
		if n > 0 {
			u.maxAttempts = n
		}
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) Option {
	return func(u *UnitOfWork) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewUnitOfWork wires a gorm-backed unit of work. Caller manages DB lifecycle.
func NewUnitOfWork(db *gorm.DB, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{db: db, maxAttempts: DefaultMaxAttempts, logger: slog.Default()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Do runs fn inside a transaction, replaying it from scratch when PostgreSQL
// aborts the transaction as a serialization failure or deadlock victim.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	if err := u.ensureDB(); err != nil {
		return err
	}
	var err error
	for attempt := 1; ; attempt++ {
		err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(ctx, newSession(tx, true))
		})
		if err == nil || attempt >= u.maxAttempts || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		u.logger.LogAttrs(ctx, slog.LevelWarn, "retrying unit of work",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
	}
}

// View runs fn in a transaction that takes no row locks and is always rolled back.
func (u *UnitOfWork) View(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	if err := u.ensureDB(); err != nil {
		return err
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()
	return fn(ctx, newSession(tx, false))
}

func (u *UnitOfWork) ensureDB() error {
	if u == nil || u.db == nil {
		return errors.New("postgres unit of work not configured")
	}
	return nil
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
