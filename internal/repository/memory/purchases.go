package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/baharkarakas/sweetshop/internal/models"
)

type purchasesRepo struct{ v *view }

func (r *purchasesRepo) Create(ctx context.Context, p models.Purchase) (models.Purchase, error) {
	err := r.v.run(ctx, func(st *state) error {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.PurchaseDate = r.v.now()
		st.purchases = append(st.purchases, p)
		return nil
	})
	return p, err
}

// ListByUser returns the user's purchases, newest first.
func (r *purchasesRepo) ListByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	out := []models.Purchase{}
	err := r.v.run(ctx, func(st *state) error {
		for i := len(st.purchases) - 1; i >= 0; i-- {
			if st.purchases[i].UserID == userID {
				out = append(out, st.purchases[i])
			}
		}
		return nil
	})
	return out, err
}
