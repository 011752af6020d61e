package models

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Limits mirror the schema: quantities are INTEGER, money is NUMERIC(12,2).
const (
	MaxQuantity = math.MaxInt32
	MaxPrice    = 1e10 // exclusive
)

type Sweet struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Sweet) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Category = strings.TrimSpace(s.Category)
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Category == "" {
		return errors.New("category is required")
	}
	if err := validPrice(s.Price); err != nil {
		return err
	}
	if err := validQuantity(s.Quantity); err != nil {
		return err
	}
	s.Price = RoundCents(s.Price)
	return nil
}

// SweetPatch carries a partial update; nil fields are left untouched.
type SweetPatch struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

func (p *SweetPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil &&
		p.Quantity == nil && p.Description == nil && p.ImageURL == nil
}

func (p *SweetPatch) Validate() error {
	if p.Empty() {
		return errors.New("no fields to update")
	}
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		if n == "" {
			return errors.New("name must not be empty")
		}
		p.Name = &n
	}
	if p.Category != nil {
		c := strings.TrimSpace(*p.Category)
		if c == "" {
			return errors.New("category must not be empty")
		}
		p.Category = &c
	}
	if p.Price != nil {
		if err := validPrice(*p.Price); err != nil {
			return err
		}
		v := RoundCents(*p.Price)
		p.Price = &v
	}
	if p.Quantity != nil {
		if err := validQuantity(*p.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the set fields onto s. It does not touch timestamps.
func (p SweetPatch) Apply(s *Sweet) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Quantity != nil {
		s.Quantity = *p.Quantity
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.ImageURL != nil {
		s.ImageURL = *p.ImageURL
	}
}

func validPrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return errors.New("invalid price")
	}
	if p < 0 {
		return errors.New("price must be >= 0")
	}
	if RoundCents(p) >= MaxPrice {
		return errors.New("price is too large")
	}
	return nil
}

func validQuantity(q int) error {
	if q < 0 {
		return errors.New("quantity must be >= 0")
	}
	if q > MaxQuantity {
		return errors.New("quantity is too large")
	}
	return nil
}

// RoundCents rounds a price to two decimal places.
func RoundCents(v float64) float64 { return math.Round(v*100) / 100 }
