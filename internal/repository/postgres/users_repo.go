package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/sweetshop/internal/models"
)

type usersRepo struct{ db DB }

const userCols = `id, email, password_hash, role, created_at`

// Register takes a table lock so two registrations against an empty table
// cannot both see zero users and both become admin.
func (r *usersRepo) Register(ctx context.Context, email, hash string) (models.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.User{}, err
	}
	if _, err := tx.Exec(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		_ = tx.Rollback(ctx)
		return models.User{}, fmt.Errorf("lock users: %w", err)
	}
	var n int64
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		_ = tx.Rollback(ctx)
		return models.User{}, fmt.Errorf("count users: %w", err)
	}
	u, err := insertUser(ctx, tx, email, hash, models.RoleForNewUser(n))
	if err != nil {
		_ = tx.Rollback(ctx)
		return models.User{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, email, hash string, role models.Role) (models.User, error) {
	return insertUser(ctx, r.db, email, hash, role)
}

func insertUser(ctx context.Context, db DB, email, hash string, role models.Role) (models.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users(id, email, password_hash, role) VALUES($1,$2,$3,$4) RETURNING `+userCols,
		uuid.NewString(), models.NormalizeEmail(email), hash, string(role),
	)
	u, err := scanUser(row)
	return u, mapErr(err)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
	return u, mapErr(err)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE lower(email)=$1`, models.NormalizeEmail(email)))
	return u, mapErr(err)
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		u    models.User
		role string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	u.Role = models.Role(role)
	return u, err
}
