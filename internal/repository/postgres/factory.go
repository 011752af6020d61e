package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
)

// DB is satisfied by *pgxpool.Pool and pgx.Tx (where Begin opens a
// savepoint), so repositories run the same way inside and outside a
// transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

func NewRepositories(pool DB) repo.Repositories {
	r := bind(pool)
	r.Tx = &transactor{db: pool}
	return r
}

func bind(db DB) repo.Repositories {
	return repo.Repositories{
		Users:     &usersRepo{db},
		Sweets:    &sweetsRepo{db},
		Purchases: &purchasesRepo{db},
	}
}

const (
	uniqueViolation   = "23505"
	checkViolation    = "23514"
	numericOutOfRange = "22003"
)

// mapErr translates driver errors into apperr kinds.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperr.ErrConflict
		case numericOutOfRange, checkViolation:
			return apperr.New(apperr.ErrValidation, "Value out of range")
		}
	}
	return err
}
