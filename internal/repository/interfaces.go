package repository

import (
	"context"

	"github.com/baharkarakas/sweetshop/internal/models"
)

// Users is the credential store. Emails are stored normalized and unique;
// duplicates fail with apperr.ErrConflict.
type Users interface {
	// Register inserts a user whose role follows models.RoleForNewUser,
	// deciding "first user" atomically with the insert.
	Register(ctx context.Context, email, passwordHash string) (models.User, error)
	Create(ctx context.Context, email, passwordHash string, role models.Role) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

type Sweets interface {
	Create(ctx context.Context, s models.Sweet) (models.Sweet, error)
	GetByID(ctx context.Context, id string) (models.Sweet, error)
	Search(ctx context.Context, f SweetFilter) ([]models.Sweet, error)
	Update(ctx context.Context, id string, p models.SweetPatch) (models.Sweet, error)
	Delete(ctx context.Context, id string) error

	// DecrementStock subtracts qty only while quantity >= qty, in one atomic
	// step. It fails with apperr.ErrInsufficientStock or apperr.ErrNotFound.
	DecrementStock(ctx context.Context, id string, qty int) (models.Sweet, error)
	IncrementStock(ctx context.Context, id string, qty int) (models.Sweet, error)
}

// Purchases is the append-only purchase ledger.
type Purchases interface {
	Create(ctx context.Context, p models.Purchase) (models.Purchase, error)
	ListByUser(ctx context.Context, userID string) ([]models.Purchase, error)
}

// Transactor runs fn against repositories bound to one transaction. If fn
// returns an error nothing it wrote is kept.
type Transactor interface {
	WithTx(ctx context.Context, fn func(Repositories) error) error
}

type Repositories struct {
	Users     Users
	Sweets    Sweets
	Purchases Purchases
	Tx        Transactor
}
