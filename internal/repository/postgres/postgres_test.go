package postgres

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/models"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return mock
}

var (
	userColNames  = []string{"id", "email", "password_hash", "role", "created_at"}
	sweetColNames = []string{"id", "name", "category", "price", "quantity", "description", "image_url", "created_at", "updated_at"}
)

func sweetRow(id string, qty int, now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(sweetColNames).
		AddRow(id, "Chocolate Truffles", "Chocolate", 5.99, qty, "Rich", "/truffles.png", now, now)
}

func TestUsersRegister_FirstUserIsAdmin(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`)).
		WillReturnResult(pgxmock.NewResult("LOCK TABLE", 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM users`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users(id, email, password_hash, role)`)).
		WithArgs(pgxmock.AnyArg(), "boss@shop.com", "hash", "admin").
		WillReturnRows(pgxmock.NewRows(userColNames).AddRow("u1", "boss@shop.com", "hash", "admin", now))
	mock.ExpectCommit()

	u, err := repos.Users.Register(context.Background(), "  Boss@Shop.com ", "hash")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != models.RoleAdmin || u.Email != "boss@shop.com" {
		t.Fatalf("user = %+v", u)
	}
}

func TestUsersRegister_LaterUserIsUser(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`LOCK TABLE users`)).
		WillReturnResult(pgxmock.NewResult("LOCK TABLE", 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM users`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(pgxmock.AnyArg(), "kid@shop.com", "hash", "user").
		WillReturnRows(pgxmock.NewRows(userColNames).AddRow("u4", "kid@shop.com", "hash", "user", time.Now()))
	mock.ExpectCommit()

	u, err := repos.Users.Register(context.Background(), "kid@shop.com", "hash")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != models.RoleUser {
		t.Fatalf("role = %s", u.Role)
	}
}

func TestUsersRegister_DuplicateIsConflict(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`LOCK TABLE users`)).
		WillReturnResult(pgxmock.NewResult("LOCK TABLE", 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM users`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_key"})
	mock.ExpectRollback()

	_, err := repos.Users.Register(context.Background(), "dup@shop.com", "hash")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestUsersGetByEmail_NotFound(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(email)=$1`)).
		WithArgs("nobody@shop.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repos.Users.GetByEmail(context.Background(), "Nobody@Shop.com")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestSearchQuery(t *testing.T) {
	lo, hi := 1.5, 6.0
	q, args := searchQuery(repo.SweetFilter{
		NameContains: "50%_off",
		Category:     "Chocolate",
		PriceMin:     &lo,
		PriceMax:     &hi,
	})

	wantWhere := `WHERE name ILIKE $1 ESCAPE '\' AND category = $2 AND price >= $3 AND price <= $4 ORDER BY created_at DESC, id`
	if !strings.HasSuffix(q, wantWhere) {
		t.Fatalf("query = %s", q)
	}
	wantArgs := []any{`%50\%\_off%`, "Chocolate", 1.5, 6.0}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("args = %#v", args)
	}

	q, args = searchQuery(repo.SweetFilter{})
	if strings.Contains(q, "WHERE") || len(args) != 0 {
		t.Fatalf("empty filter produced %s %v", q, args)
	}
}

func TestSweetsSearch(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM sweets WHERE category = $1 ORDER BY created_at DESC`)).
		WithArgs("Chocolate").
		WillReturnRows(sweetRow("s1", 50, now).
			AddRow("s2", "Mint Chocolates", "Chocolate", 6.49, 40, "", "", now, now))

	out, err := repos.Sweets.Search(context.Background(), repo.SweetFilter{Category: "Chocolate"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out) != 2 || out[1].Name != "Mint Chocolates" || out[0].Price != 5.99 {
		t.Fatalf("out = %+v", out)
	}
}

func TestSweetsDecrementStock(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("ok", func(t *testing.T) {
		mock := newMock(t)
		repos := NewRepositories(mock)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND quantity >= $2`)).
			WithArgs("s1", 3).
			WillReturnRows(sweetRow("s1", 47, now))

		s, err := repos.Sweets.DecrementStock(ctx, "s1", 3)
		if err != nil || s.Quantity != 47 {
			t.Fatalf("s = %+v err = %v", s, err)
		}
	})

	t.Run("insufficient", func(t *testing.T) {
		mock := newMock(t)
		repos := NewRepositories(mock)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND quantity >= $2`)).
			WithArgs("s1", 99).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM sweets WHERE id=$1)`)).
			WithArgs("s1").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := repos.Sweets.DecrementStock(ctx, "s1", 99)
		if !errors.Is(err, apperr.ErrInsufficientStock) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		mock := newMock(t)
		repos := NewRepositories(mock)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND quantity >= $2`)).
			WithArgs("nope", 1).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
			WithArgs("nope").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := repos.Sweets.DecrementStock(ctx, "nope", 1)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestSweetsIncrementStock_NotFound(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`SET quantity = quantity + $2`)).
		WithArgs("nope", 5).
		WillReturnError(pgx.ErrNoRows)

	_, err := repos.Sweets.IncrementStock(context.Background(), "nope", 5)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestSweetsIncrementStock_OutOfRangeIsValidation(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`SET quantity = quantity + $2`)).
		WithArgs("s1", models.MaxQuantity).
		WillReturnError(&pgconn.PgError{Code: "22003", Message: "integer out of range"})

	_, err := repos.Sweets.IncrementStock(context.Background(), "s1", models.MaxQuantity)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestMapErr(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{pgx.ErrNoRows, apperr.ErrNotFound},
		{&pgconn.PgError{Code: "23505"}, apperr.ErrConflict},
		{&pgconn.PgError{Code: "22003"}, apperr.ErrValidation},
		{&pgconn.PgError{Code: "23514"}, apperr.ErrValidation},
	}
	for _, tc := range cases {
		if got := mapErr(tc.in); !errors.Is(got, tc.want) {
			t.Errorf("mapErr(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	other := &pgconn.PgError{Code: "08006"}
	if got := mapErr(other); got != other {
		t.Errorf("unmapped error changed: %v", got)
	}
}

func TestSweetsUpdate(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)
	now := time.Now()
	price := 6.25

	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE($4, price)`)).
		WithArgs("s1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(sweetColNames).
			AddRow("s1", "Chocolate Truffles", "Chocolate", 6.25, 50, "", "", now, now))

	s, err := repos.Sweets.Update(context.Background(), "s1", models.SweetPatch{Price: &price})
	if err != nil || s.Price != 6.25 {
		t.Fatalf("s = %+v err = %v", s, err)
	}
}

func TestSweetsDelete(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sweets WHERE id=$1`)).
		WithArgs("s1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sweets WHERE id=$1`)).
		WithArgs("s1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repos.Sweets.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := repos.Sweets.Delete(context.Background(), "s1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestWithTx_CommitsDecrementAndLedger(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND quantity >= $2`)).
		WithArgs("s1", 3).
		WillReturnRows(sweetRow("s1", 47, now))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO purchases`)).
		WithArgs(pgxmock.AnyArg(), "u1", "s1", 3, 17.97).
		WillReturnRows(pgxmock.NewRows([]string{"purchase_date"}).AddRow(now))
	mock.ExpectCommit()

	var got models.Purchase
	err := repos.Tx.WithTx(context.Background(), func(r repo.Repositories) error {
		if _, err := r.Sweets.DecrementStock(context.Background(), "s1", 3); err != nil {
			return err
		}
		p, err := r.Purchases.Create(context.Background(), models.Purchase{
			UserID: "u1", SweetID: "s1", Quantity: 3, TotalPrice: 17.97,
		})
		got = p
		return err
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if got.ID == "" || !got.PurchaseDate.Equal(now) {
		t.Fatalf("purchase = %+v", got)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND quantity >= $2`)).
		WithArgs("s1", 3).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repos.Tx.WithTx(context.Background(), func(r repo.Repositories) error {
		_, err := r.Sweets.DecrementStock(context.Background(), "s1", 3)
		return err
	})
	if !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("err = %v", err)
	}
}

func TestPurchasesListByUser(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM purchases`)).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "sweet_id", "quantity", "total_price", "purchase_date"}).
			AddRow("p2", "u1", "s1", 1, 5.99, now).
			AddRow("p1", "u1", "s2", 2, 6.98, now.Add(-time.Hour)))

	out, err := repos.Purchases.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(out) != 2 || out[0].ID != "p2" || out[1].TotalPrice != 6.98 {
		t.Fatalf("out = %+v", out)
	}
}
