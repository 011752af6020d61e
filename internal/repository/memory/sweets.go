package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/models"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
)

type sweetsRepo struct{ v *view }

func (r *sweetsRepo) Create(ctx context.Context, s models.Sweet) (models.Sweet, error) {
	err := r.v.run(ctx, func(st *state) error {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if _, dup := st.sweets[s.ID]; dup {
			return apperr.ErrConflict
		}
		now := r.v.now()
		s.CreatedAt, s.UpdatedAt = now, now
		st.seq++
		st.sweets[s.ID] = sweetRec{Sweet: s, seq: st.seq}
		return nil
	})
	return s, err
}

func (r *sweetsRepo) GetByID(ctx context.Context, id string) (models.Sweet, error) {
	var s models.Sweet
	err := r.v.run(ctx, func(st *state) error {
		rec, ok := st.sweets[id]
		if !ok {
			return apperr.ErrNotFound
		}
		s = rec.Sweet
		return nil
	})
	return s, err
}

func (r *sweetsRepo) Search(ctx context.Context, f repo.SweetFilter) ([]models.Sweet, error) {
	var recs []sweetRec
	err := r.v.run(ctx, func(st *state) error {
		for _, rec := range st.sweets {
			if f.Match(rec.Name, rec.Category, rec.Price) {
				recs = append(recs, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].seq > recs[j].seq
	})
	out := make([]models.Sweet, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Sweet)
	}
	return out, nil
}

func (r *sweetsRepo) Update(ctx context.Context, id string, p models.SweetPatch) (models.Sweet, error) {
	return r.mutate(ctx, id, func(s *models.Sweet) error {
		p.Apply(s)
		return nil
	})
}

func (r *sweetsRepo) Delete(ctx context.Context, id string) error {
	return r.v.run(ctx, func(st *state) error {
		if _, ok := st.sweets[id]; !ok {
			return apperr.ErrNotFound
		}
		delete(st.sweets, id)
		return nil
	})
}

func (r *sweetsRepo) DecrementStock(ctx context.Context, id string, qty int) (models.Sweet, error) {
	return r.mutate(ctx, id, func(s *models.Sweet) error {
		if s.Quantity < qty {
			return apperr.ErrInsufficientStock
		}
		s.Quantity -= qty
		return nil
	})
}

func (r *sweetsRepo) IncrementStock(ctx context.Context, id string, qty int) (models.Sweet, error) {
	return r.mutate(ctx, id, func(s *models.Sweet) error {
		if qty > models.MaxQuantity-s.Quantity {
			return apperr.New(apperr.ErrValidation, "Quantity out of range")
		}
		s.Quantity += qty
		return nil
	})
}

// mutate applies fn to a copy of the sweet and stores it only if fn succeeds.
func (r *sweetsRepo) mutate(ctx context.Context, id string, fn func(*models.Sweet) error) (models.Sweet, error) {
	var out models.Sweet
	err := r.v.run(ctx, func(st *state) error {
		rec, ok := st.sweets[id]
		if !ok {
			return apperr.ErrNotFound
		}
		s := rec.Sweet
		if err := fn(&s); err != nil {
			return err
		}
		s.UpdatedAt = r.v.now()
		rec.Sweet = s
		st.sweets[id] = rec
		out = s
		return nil
	})
	return out, err
}
