package services

import (
	"context"
	"errors"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/models"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
)

// SweetService is the catalog: search plus admin CRUD. Role checks for the
// write paths happen in the router.
type SweetService struct {
	r repo.Sweets
}

func NewSweetService(r repo.Sweets) *SweetService { return &SweetService{r: r} }

var errSweetNotFound = apperr.New(apperr.ErrNotFound, "Sweet not found")

func (s *SweetService) List(ctx context.Context, f repo.SweetFilter) ([]models.Sweet, error) {
	if err := f.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	return s.r.Search(ctx, f)
}

func (s *SweetService) Get(ctx context.Context, id string) (models.Sweet, error) {
	sw, err := s.r.GetByID(ctx, id)
	return sw, notFound(err)
}

func (s *SweetService) Create(ctx context.Context, in models.Sweet) (models.Sweet, error) {
	in.ID = ""
	if err := in.Validate(); err != nil {
		return models.Sweet{}, apperr.Validation(err.Error())
	}
	return s.r.Create(ctx, in)
}

func (s *SweetService) Update(ctx context.Context, id string, p models.SweetPatch) (models.Sweet, error) {
	if err := p.Validate(); err != nil {
		return models.Sweet{}, apperr.Validation(err.Error())
	}
	sw, err := s.r.Update(ctx, id, p)
	return sw, notFound(err)
}

func (s *SweetService) Delete(ctx context.Context, id string) error {
	return notFound(s.r.Delete(ctx, id))
}

func notFound(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return errSweetNotFound
	}
	return err
}
