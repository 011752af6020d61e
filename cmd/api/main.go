package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/sweetshop/internal/api"
	"github.com/baharkarakas/sweetshop/internal/auth"
	"github.com/baharkarakas/sweetshop/internal/config"
	"github.com/baharkarakas/sweetshop/internal/db"
	"github.com/baharkarakas/sweetshop/internal/logger"
	"github.com/baharkarakas/sweetshop/internal/metrics"
	"github.com/baharkarakas/sweetshop/internal/middleware"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
	"github.com/baharkarakas/sweetshop/internal/repository/memory"
	"github.com/baharkarakas/sweetshop/internal/repository/postgres"
	"github.com/baharkarakas/sweetshop/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// run owns every resource it opens, so its deferred closes run on both the
// error and the shutdown paths.
func run(cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos repo.Repositories
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using in-memory store; data is lost on restart")
		repos = memory.NewStore().Repositories()
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer pool.Close()

		if cfg.Migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
		}
		repos = postgres.NewRepositories(pool)
	}

	var limiter middleware.Limiter
	switch {
	case cfg.RateRPS <= 0:
	case cfg.ValkeyURI != "":
		client, err := db.NewValkeyClient(cfg.ValkeyURI)
		if err != nil {
			return fmt.Errorf("valkey connect: %w", err)
		}
		defer client.Close()
		limiter = middleware.NewValkeyLimiter(client, cfg.RateRPS)
	default:
		limiter = middleware.NewBucketLimiter(cfg.RateRPS)
	}

	sessions := auth.NewSessions(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:          cfg,
		Sessions:     sessions,
		UserSvc:      services.NewUserService(repos.Users, sessions),
		SweetSvc:     services.NewSweetService(repos.Sweets),
		InventorySvc: services.NewInventoryService(repos),
		Limiter:      limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
