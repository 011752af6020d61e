package repository

import (
	"errors"
	"math"
	"strings"
)

// SweetFilter enumerates the catalog search options. Zero values mean "no
// constraint".
type SweetFilter struct {
	NameContains string   // case-insensitive substring
	Category     string   // exact, case-sensitive
	PriceMin     *float64 // inclusive
	PriceMax     *float64 // inclusive
}

func (f *SweetFilter) Validate() error {
	f.NameContains = strings.TrimSpace(f.NameContains)
	f.Category = strings.TrimSpace(f.Category)
	for _, p := range []*float64{f.PriceMin, f.PriceMax} {
		if p == nil {
			continue
		}
		if math.IsNaN(*p) || math.IsInf(*p, 0) {
			return errors.New("price bound must be a number")
		}
		if *p < 0 {
			return errors.New("price bound must be >= 0")
		}
	}
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return errors.New("minPrice must not exceed maxPrice")
	}
	return nil
}

// Match evaluates the filter in memory with the same semantics the SQL
// backend uses.
func (f SweetFilter) Match(name, category string, price float64) bool {
	if f.NameContains != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(f.NameContains)) {
		return false
	}
	if f.Category != "" && category != f.Category {
		return false
	}
	if f.PriceMin != nil && price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && price > *f.PriceMax {
		return false
	}
	return true
}
