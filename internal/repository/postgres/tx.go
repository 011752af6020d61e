package postgres

import (
	"context"

	repo "github.com/baharkarakas/sweetshop/internal/repository"
)

type transactor struct{ db DB }

// WithTx runs fn in one READ COMMITTED transaction. That level is what lets
// the guarded stock UPDATE re-check its predicate after waiting on a row lock
// instead of failing with a serialization error.
func (t *transactor) WithTx(ctx context.Context, fn func(repo.Repositories) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return err
	}
	repos := bind(tx)
	repos.Tx = &joined{repos: &repos}

	if err := fn(repos); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// joined makes nested WithTx calls reuse the enclosing transaction.
type joined struct{ repos *repo.Repositories }

func (j *joined) WithTx(_ context.Context, fn func(repo.Repositories) error) error {
	return fn(*j.repos)
}
