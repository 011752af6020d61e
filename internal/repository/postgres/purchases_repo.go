package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/baharkarakas/sweetshop/internal/models"
)

type purchasesRepo struct{ db DB }

func (r *purchasesRepo) Create(ctx context.Context, p models.Purchase) (models.Purchase, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO purchases(id, user_id, sweet_id, quantity, total_price)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING purchase_date`,
		p.ID, p.UserID, p.SweetID, p.Quantity, p.TotalPrice,
	).Scan(&p.PurchaseDate)
	return p, mapErr(err)
}

func (r *purchasesRepo) ListByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, sweet_id, quantity, total_price, purchase_date
		   FROM purchases
		  WHERE user_id=$1
		  ORDER BY purchase_date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Purchase{}
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.SweetID, &p.Quantity, &p.TotalPrice, &p.PurchaseDate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
