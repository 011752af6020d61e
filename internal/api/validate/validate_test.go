package validate

import (
	"errors"
	"net/url"
	"testing"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/models"
)

func TestSweetFilter(t *testing.T) {
	f, err := SweetFilter(url.Values{
		"search":   {" choc "},
		"category": {"Chocolate"},
		"minPrice": {"1.5"},
		"maxPrice": {"10"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if f.NameContains != "choc" || f.Category != "Chocolate" {
		t.Fatalf("filter = %+v", f)
	}
	if f.PriceMin == nil || *f.PriceMin != 1.5 || f.PriceMax == nil || *f.PriceMax != 10 {
		t.Fatalf("bounds = %v %v", f.PriceMin, f.PriceMax)
	}

	empty, err := SweetFilter(url.Values{"minPrice": {""}})
	if err != nil || empty.PriceMin != nil {
		t.Fatalf("blank bound = %+v %v", empty, err)
	}
}

func TestSweetFilterRejects(t *testing.T) {
	for name, q := range map[string]url.Values{
		"not a number": {"minPrice": {"cheap"}},
		"negative":     {"maxPrice": {"-1"}},
		"inverted":     {"minPrice": {"5"}, "maxPrice": {"2"}},
		"nan":          {"minPrice": {"NaN"}},
	} {
		if _, err := SweetFilter(q); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestQuantity(t *testing.T) {
	one, zero, top := 1, 0, models.MaxQuantity
	over := top
	over++
	for _, q := range []*int{&one, &top} {
		if err := Quantity(q); err != nil {
			t.Fatalf("Quantity(%d) = %v", *q, err)
		}
	}
	for _, q := range []*int{nil, &zero, &over} {
		if err := Quantity(q); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("Quantity(%v) = %v", q, err)
		}
	}
}
