package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/sweetshop/internal/api/handlers"
	"github.com/baharkarakas/sweetshop/internal/auth"
	"github.com/baharkarakas/sweetshop/internal/config"
	"github.com/baharkarakas/sweetshop/internal/metrics"
	"github.com/baharkarakas/sweetshop/internal/middleware"
	"github.com/baharkarakas/sweetshop/internal/models"
	"github.com/baharkarakas/sweetshop/internal/services"
)

type RouterDeps struct {
	Cfg          config.Config
	Sessions     *auth.Sessions
	UserSvc      *services.UserService
	SweetSvc     *services.SweetService
	InventorySvc *services.InventoryService
	Limiter      middleware.Limiter // nil disables rate limiting
}

func NewRouter(d RouterDeps) http.Handler {
	dev := d.Cfg.IsDev()
	authH := handlers.NewAuthHandler(d.UserSvc, d.Cfg.CookieSecure, dev)
	sweetH := handlers.NewSweetHandler(d.SweetSvc, dev)
	invH := handlers.NewInventoryHandler(d.InventorySvc, dev)

	r := chi.NewRouter()
	r.Use(chimw.RealIP, middleware.RequestID, middleware.Recover, middleware.AccessLog, middleware.HTTPMetrics)
	r.Use(middleware.RateLimit(d.Limiter))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(d.Sessions))

		// ---------- auth ----------
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/logout", authH.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/auth/me", authH.Me)

			// ---------- catalog ----------
			r.Get("/sweets", sweetH.List)
			r.Get("/sweets/{id}", sweetH.Get)

			// ---------- inventory ----------
			r.Post("/sweets/{id}/purchase", invH.Purchase)
			r.Get("/purchases", invH.History)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/sweets", sweetH.Create)
			r.Put("/sweets/{id}", sweetH.Update)
			r.Delete("/sweets/{id}", sweetH.Delete)
			r.Post("/sweets/{id}/restock", invH.Restock)
		})
	})

	return r
}
