// Package memory is an in-process backend with the same semantics as the
// Postgres repositories. One mutex stands in for the database's row-level
// atomicity; it backs STORE_DRIVER=memory and the service and HTTP tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baharkarakas/sweetshop/internal/models"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
)

type state struct {
	users     map[string]models.User
	sweets    map[string]sweetRec
	purchases []models.Purchase
	seq       int64
}

// sweetRec keeps an insertion sequence to break created_at ties.
type sweetRec struct {
	models.Sweet
	seq int64
}

func (s *state) clone() *state {
	c := &state{
		users:     make(map[string]models.User, len(s.users)),
		sweets:    make(map[string]sweetRec, len(s.sweets)),
		purchases: append([]models.Purchase(nil), s.purchases...),
		seq:       s.seq,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.sweets {
		c.sweets[k] = v
	}
	return c
}

type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		st: &state{
			users:  map[string]models.User{},
			sweets: map[string]sweetRec{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Repositories returns repositories that lock the store per call.
func (s *Store) Repositories() repo.Repositories {
	v := &view{store: s}
	return repo.Repositories{
		Users:     &usersRepo{v},
		Sweets:    &sweetsRepo{v},
		Purchases: &purchasesRepo{v},
		Tx:        s,
	}
}

// WithTx holds the store lock for the whole of fn and restores the previous
// state if fn fails.
func (s *Store) WithTx(ctx context.Context, fn func(repo.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	v := &view{store: s, inTx: true}
	repos := repo.Repositories{
		Users:     &usersRepo{v},
		Sweets:    &sweetsRepo{v},
		Purchases: &purchasesRepo{v},
	}
	repos.Tx = nested{repos: &repos}

	if err := fn(repos); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

type nested struct{ repos *repo.Repositories }

func (n nested) WithTx(_ context.Context, fn func(repo.Repositories) error) error {
	return fn(*n.repos)
}

// view runs repository bodies either under the store lock or, inside WithTx,
// directly (the lock is already held).
type view struct {
	store *Store
	inTx  bool
}

func (v *view) run(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.inTx {
		return fn(v.store.st)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func (v *view) now() time.Time { return v.store.now() }
