package models

import (
	"errors"
	"math"
	"time"
)

type Purchase struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SweetID      string    `json:"sweet_id"`
	Quantity     int       `json:"quantity"`
	TotalPrice   float64   `json:"total_price"`
	PurchaseDate time.Time `json:"purchase_date"`
}

// ErrTotalOutOfRange reports a line total that does not fit NUMERIC(12,2).
var ErrTotalOutOfRange = errors.New("total price out of range")

const maxCents = int64(MaxPrice*100) - 1

// LineTotal multiplies a unit price by qty in whole cents so that
// 5.99 x 3 is exactly 17.97.
func LineTotal(unitPrice float64, qty int) (float64, error) {
	if math.IsNaN(unitPrice) || unitPrice < 0 || unitPrice >= MaxPrice || qty < 0 {
		return 0, ErrTotalOutOfRange
	}
	cents := int64(math.Round(unitPrice * 100))
	if qty > 0 && cents > maxCents/int64(qty) {
		return 0, ErrTotalOutOfRange
	}
	return float64(cents*int64(qty)) / 100, nil
}
