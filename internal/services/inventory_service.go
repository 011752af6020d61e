package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/auth"
	"github.com/baharkarakas/sweetshop/internal/metrics"
	"github.com/baharkarakas/sweetshop/internal/models"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
)

// InventoryService owns the two stock mutations. Purchases decrement stock
// with a guarded update and append to the ledger in the same transaction;
// restocks are admin-only increments.
type InventoryService struct {
	repos repo.Repositories
}

func NewInventoryService(repos repo.Repositories) *InventoryService {
	return &InventoryService{repos: repos}
}

var (
	errInvalidQuantity   = apperr.Validation("Invalid quantity")
	errInsufficientStock = apperr.New(apperr.ErrInsufficientStock, "Insufficient stock")
	errTotalOutOfRange   = apperr.Validation("Order total is too large")
)

func validQuantity(qty int) bool { return qty >= 1 && qty <= models.MaxQuantity }

func (s *InventoryService) Purchase(ctx context.Context, p auth.Principal, sweetID string, qty int) (models.Purchase, error) {
	if !p.Authenticated() {
		return models.Purchase{}, apperr.ErrUnauthenticated
	}
	if !validQuantity(qty) {
		metrics.PurchaseFailures.WithLabelValues("invalid").Inc()
		return models.Purchase{}, errInvalidQuantity
	}

	sweet, err := s.repos.Sweets.GetByID(ctx, sweetID)
	if err != nil {
		return models.Purchase{}, s.purchaseFailed(notFound(err))
	}
	if sweet.Quantity < qty {
		return models.Purchase{}, s.purchaseFailed(errInsufficientStock)
	}
	total, err := models.LineTotal(sweet.Price, qty)
	if err != nil {
		return models.Purchase{}, s.purchaseFailed(errTotalOutOfRange)
	}

	var out models.Purchase
	err = s.repos.Tx.WithTx(ctx, func(tx repo.Repositories) error {
		// stock may have moved since the read above; the guard decides
		if _, err := tx.Sweets.DecrementStock(ctx, sweetID, qty); err != nil {
			return err
		}
		rec, err := tx.Purchases.Create(ctx, models.Purchase{
			UserID:     p.UserID,
			SweetID:    sweetID,
			Quantity:   qty,
			TotalPrice: total,
		})
		out = rec
		return err
	})
	switch {
	case errors.Is(err, apperr.ErrInsufficientStock):
		return models.Purchase{}, s.purchaseFailed(errInsufficientStock)
	case err != nil:
		return models.Purchase{}, s.purchaseFailed(notFound(err))
	}

	metrics.PurchasesTotal.Inc()
	metrics.UnitsSold.Add(float64(qty))
	slog.InfoContext(ctx, "purchase completed",
		"purchase_id", out.ID, "user_id", p.UserID, "sweet_id", sweetID,
		"quantity", qty, "total_price", out.TotalPrice)
	return out, nil
}

func (s *InventoryService) purchaseFailed(err error) error {
	reason := "error"
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, apperr.ErrInsufficientStock):
		reason = "insufficient_stock"
	case errors.Is(err, apperr.ErrValidation):
		reason = "invalid"
	}
	metrics.PurchaseFailures.WithLabelValues(reason).Inc()
	return err
}

func (s *InventoryService) Restock(ctx context.Context, p auth.Principal, sweetID string, qty int) (models.Sweet, error) {
	if !p.Authenticated() {
		return models.Sweet{}, apperr.ErrUnauthenticated
	}
	if !p.IsAdmin() {
		return models.Sweet{}, apperr.New(apperr.ErrForbidden, "Forbidden - Admin only")
	}
	if !validQuantity(qty) {
		return models.Sweet{}, errInvalidQuantity
	}

	sweet, err := s.repos.Sweets.IncrementStock(ctx, sweetID, qty)
	if err != nil {
		return models.Sweet{}, notFound(err)
	}
	metrics.RestocksTotal.Inc()
	slog.InfoContext(ctx, "restock", "sweet_id", sweetID, "admin_id", p.UserID,
		"added", qty, "quantity", sweet.Quantity)
	return sweet, nil
}

// History lists the caller's purchases, newest first.
func (s *InventoryService) History(ctx context.Context, p auth.Principal) ([]models.Purchase, error) {
	if !p.Authenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	return s.repos.Purchases.ListByUser(ctx, p.UserID)
}
