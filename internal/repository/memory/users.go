package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/models"
)

type usersRepo struct{ v *view }

func (r *usersRepo) Register(ctx context.Context, email, hash string) (models.User, error) {
	var u models.User
	err := r.v.run(ctx, func(st *state) error {
		var err error
		u, err = r.insert(st, email, hash, models.RoleForNewUser(int64(len(st.users))))
		return err
	})
	return u, err
}

func (r *usersRepo) Create(ctx context.Context, email, hash string, role models.Role) (models.User, error) {
	var u models.User
	err := r.v.run(ctx, func(st *state) error {
		var err error
		u, err = r.insert(st, email, hash, role)
		return err
	})
	return u, err
}

func (r *usersRepo) insert(st *state, email, hash string, role models.Role) (models.User, error) {
	email = models.NormalizeEmail(email)
	for _, u := range st.users {
		if u.Email == email {
			return models.User{}, apperr.ErrConflict
		}
	}
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    r.v.now(),
	}
	st.users[u.ID] = u
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.v.run(ctx, func(st *state) error {
		var ok bool
		if u, ok = st.users[id]; !ok {
			return apperr.ErrNotFound
		}
		return nil
	})
	return u, err
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	email = models.NormalizeEmail(email)
	var u models.User
	err := r.v.run(ctx, func(st *state) error {
		for _, cand := range st.users {
			if cand.Email == email {
				u = cand
				return nil
			}
		}
		return apperr.ErrNotFound
	})
	return u, err
}
