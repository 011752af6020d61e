// Command seed prepares a Postgres database for a demo: it applies the
// migrations, creates an admin account and fills an empty catalog with
// sample sweets. Running it twice is harmless.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/auth"
	"github.com/baharkarakas/sweetshop/internal/config"
	"github.com/baharkarakas/sweetshop/internal/db"
	"github.com/baharkarakas/sweetshop/internal/logger"
	"github.com/baharkarakas/sweetshop/internal/models"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
	"github.com/baharkarakas/sweetshop/internal/repository/postgres"
)

var samples = []models.Sweet{
	{Name: "Chocolate Truffles", Category: "Chocolate", Price: 5.99, Quantity: 50, Description: "Rich dark chocolate truffles"},
	{Name: "Gummy Bears", Category: "Gummy", Price: 3.49, Quantity: 100, Description: "Fruity gummy bears in assorted flavors"},
	{Name: "Lollipops", Category: "Hard Candy", Price: 1.99, Quantity: 75, Description: "Classic swirl lollipops"},
	{Name: "Caramel Chews", Category: "Caramel", Price: 4.49, Quantity: 60, Description: "Soft buttery caramel chews"},
	{Name: "Sour Worms", Category: "Sour", Price: 3.99, Quantity: 80, Description: "Tangy sour gummy worms"},
	{Name: "Mint Chocolates", Category: "Chocolate", Price: 6.49, Quantity: 40, Description: "Chocolate with a cool mint center"},
	{Name: "Strawberry Jellies", Category: "Gummy", Price: 4.99, Quantity: 65, Description: "Sugar coated strawberry jellies"},
	{Name: "Rainbow Lollipops", Category: "Hard Candy", Price: 2.49, Quantity: 90, Description: "Giant rainbow swirl lollipops"},
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	email := flag.String("admin-email", "admin@sweetshop.com", "admin account email")
	password := flag.String("admin-password", "admin123", "admin account password")
	flag.Parse()

	if err := run(context.Background(), cfg.DatabaseURL, *email, *password); err != nil {
		log.Error("seed", "err", err)
		os.Exit(1)
	}
	log.Info("seed complete")
}

func run(ctx context.Context, url, email, password string) error {
	pool, err := db.NewPool(ctx, url)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return seed(ctx, postgres.NewRepositories(pool), email, password)
}

func seed(ctx context.Context, repos repo.Repositories, email, password string) error {
	if len(password) < models.MinPasswordLen {
		return apperr.Validation("admin password too short")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u, err := repos.Users.Create(ctx, models.NormalizeEmail(email), hash, models.RoleAdmin)
	switch {
	case errors.Is(err, apperr.ErrConflict):
		slog.Info("admin exists, skipping", "email", email)
	case err != nil:
		return err
	default:
		slog.Info("admin created", "email", u.Email, "user_id", u.ID)
	}

	existing, err := repos.Sweets.Search(ctx, repo.SweetFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("catalog not empty, skipping samples", "sweets", len(existing))
		return nil
	}
	return repos.Tx.WithTx(ctx, func(tx repo.Repositories) error {
		for _, s := range samples {
			if _, err := tx.Sweets.Create(ctx, s); err != nil {
				return err
			}
		}
		slog.Info("sample sweets inserted", "count", len(samples))
		return nil
	})
}
