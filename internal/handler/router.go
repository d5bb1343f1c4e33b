package handler

import (
	"context"
	"net/http"

	"github.com/fleetpanel/fleetpanel-go/internal/middleware"
	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/fleetpanel/fleetpanel-go/internal/repository"
	"github.com/fleetpanel/fleetpanel-go/internal/service"
	"github.com/fleetpanel/fleetpanel-go/internal/session"
	"github.com/fleetpanel/fleetpanel-go/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries what NewRouter needs to wire the app.
type RouterConfig struct {
	Backend        *repository.Client
	Codec          *token.Codec
	Cookies        session.CookieOptions
	LoginRateRPS   float64
	LoginRateBurst int
}

// NewRouter builds the application's HTTP routes. Background work started
// for the routes stops when ctx is done.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	authRepo := repository.NewAuthRepository(cfg.Backend)
	userRepo := repository.NewUserRepository(cfg.Backend)
	vehicleRepo := repository.NewVehicleRepository(cfg.Backend)

	authHandler := NewAuthHandler(service.NewAuthService(authRepo))
	userHandler := NewUserHandler(service.NewUserService(userRepo))
	vehicleHandler := NewVehicleHandler(service.NewVehicleService(vehicleRepo, userRepo))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.NotFound(NotFound)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Codec, cfg.Cookies))

		r.Get("/", authHandler.HandleRoot)
		r.Get("/login", authHandler.HandleLoginPage)
		r.With(middleware.RateLimit(ctx, cfg.LoginRateRPS, cfg.LoginRateBurst)).Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.With(middleware.RequireRole("")).Get("/me", authHandler.HandleMe)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))

			r.Get("/users", userHandler.HandleList)
			r.Post("/users", userHandler.HandleCreate)
			r.Put("/users/{id}", userHandler.HandleUpdate)
			r.Delete("/users/{id}", userHandler.HandleDelete)
			r.Get("/users/{id}/vehicles", userHandler.HandleVehicles)

			r.Get("/vehicles", vehicleHandler.HandleList)
			r.Post("/vehicles", vehicleHandler.HandleCreate)
			r.Get("/vehicles/{id}", vehicleHandler.HandleGet)
			r.Put("/vehicles/{id}", vehicleHandler.HandleUpdate)
			r.Delete("/vehicles/{id}", vehicleHandler.HandleDelete)

			r.Get("/assignments", vehicleHandler.HandleBoard)
			r.Post("/assignments/{id}", vehicleHandler.HandleAssign)
			r.Delete("/assignments/{id}", vehicleHandler.HandleUnassign)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleUser))

			r.Get("/profile", userHandler.HandleProfile)
			r.Get("/vehicles", userHandler.HandleMyVehicles)
		})
	})

	return r
}
