package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/models"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
)

type sweetsRepo struct{ db DB }

const sweetCols = `id, name, category, price, quantity, description, image_url, created_at, updated_at`

func (r *sweetsRepo) Create(ctx context.Context, s models.Sweet) (models.Sweet, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO sweets(id, name, category, price, quantity, description, image_url)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+sweetCols,
		s.ID, s.Name, s.Category, s.Price, s.Quantity, s.Description, s.ImageURL,
	)
	out, err := scanSweet(row)
	return out, mapErr(err)
}

func (r *sweetsRepo) GetByID(ctx context.Context, id string) (models.Sweet, error) {
	s, err := scanSweet(r.db.QueryRow(ctx, `SELECT `+sweetCols+` FROM sweets WHERE id=$1`, id))
	return s, mapErr(err)
}

func (r *sweetsRepo) Search(ctx context.Context, f repo.SweetFilter) ([]models.Sweet, error) {
	q, args := searchQuery(f)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Sweet{}
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// searchQuery renders the filter as a parameterized SELECT, newest first.
func searchQuery(f repo.SweetFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.NameContains != "" {
		add(`name ILIKE $%d ESCAPE '\'`, "%"+escapeLike(f.NameContains)+"%")
	}
	if f.Category != "" {
		add(`category = $%d`, f.Category)
	}
	if f.PriceMin != nil {
		add(`price >= $%d`, *f.PriceMin)
	}
	if f.PriceMax != nil {
		add(`price <= $%d`, *f.PriceMax)
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + sweetCols + ` FROM sweets`)
	if len(where) > 0 {
		b.WriteString(` WHERE ` + strings.Join(where, ` AND `))
	}
	b.WriteString(` ORDER BY created_at DESC, id`)
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (r *sweetsRepo) Update(ctx context.Context, id string, p models.SweetPatch) (models.Sweet, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE sweets
		    SET name        = COALESCE($2, name),
		        category    = COALESCE($3, category),
		        price       = COALESCE($4, price),
		        quantity    = COALESCE($5, quantity),
		        description = COALESCE($6, description),
		        image_url   = COALESCE($7, image_url),
		        updated_at  = now()
		  WHERE id = $1
		  RETURNING `+sweetCols,
		id, p.Name, p.Category, p.Price, p.Quantity, p.Description, p.ImageURL,
	)
	s, err := scanSweet(row)
	return s, mapErr(err)
}

func (r *sweetsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sweets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *sweetsRepo) DecrementStock(ctx context.Context, id string, qty int) (models.Sweet, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE sweets
		    SET quantity = quantity - $2,
		        updated_at = now()
		  WHERE id = $1 AND quantity >= $2
		  RETURNING `+sweetCols,
		id, qty,
	)
	s, err := scanSweet(row)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Sweet{}, err
	}

	// the guard matched nothing: either the row is gone or stock ran out
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sweets WHERE id=$1)`, id).Scan(&exists); err != nil {
		return models.Sweet{}, err
	}
	if !exists {
		return models.Sweet{}, apperr.ErrNotFound
	}
	return models.Sweet{}, apperr.ErrInsufficientStock
}

func (r *sweetsRepo) IncrementStock(ctx context.Context, id string, qty int) (models.Sweet, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE sweets
		    SET quantity = quantity + $2,
		        updated_at = now()
		  WHERE id = $1
		  RETURNING `+sweetCols,
		id, qty,
	)
	s, err := scanSweet(row)
	return s, mapErr(err)
}

func scanSweet(row pgx.Row) (models.Sweet, error) {
	var s models.Sweet
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity,
		&s.Description, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
