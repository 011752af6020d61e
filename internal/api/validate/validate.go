// Package validate parses request inputs that arrive outside a JSON body.
package validate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/models"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// SweetFilter builds a catalog filter from the search, category, minPrice
// and maxPrice query parameters. Blank parameters are ignored.
func SweetFilter(q url.Values) (repo.SweetFilter, error) {
	f := repo.SweetFilter{
		NameContains: q.Get("search"),
		Category:     q.Get("category"),
	}
	var errs Errs
	f.PriceMin = price(q, "minPrice", &errs)
	f.PriceMax = price(q, "maxPrice", &errs)
	if len(errs) > 0 {
		return repo.SweetFilter{}, apperr.Validation(errs.Error())
	}
	if err := f.Validate(); err != nil {
		return repo.SweetFilter{}, apperr.Validation(err.Error())
	}
	return f, nil
}

func price(q url.Values, field string, errs *Errs) *float64 {
	raw := strings.TrimSpace(q.Get(field))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, ErrField{Field: field, Msg: "must be a number"})
		return nil
	}
	return &v
}

// Quantity checks a purchase or restock amount.
func Quantity(qty *int) error {
	if qty == nil || *qty < 1 || *qty > models.MaxQuantity {
		return apperr.Validation("Invalid quantity")
	}
	return nil
}
