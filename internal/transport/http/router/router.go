package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storely/auth-service/internal/application/auth"
	"github.com/storely/auth-service/internal/domain"
	"github.com/storely/auth-service/internal/infrastructure/redis"
	"github.com/storely/auth-service/internal/transport/http/handlers"
	"github.com/storely/auth-service/internal/transport/http/middleware"
)

type Deps struct {
	Auth    *handlers.AuthHandler
	Users   *handlers.UsersHandler
	Health  *handlers.HealthHandler
	Issuer  auth.TokenIssuer
	Limiter *redis.FixedWindowLimiter

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.AccessLog)

	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/users", func(r chi.Router) {
		// public
		r.Group(func(r chi.Router) {
			if d.Limiter != nil {
				r.Use(middleware.RateLimit(d.Limiter, "login", d.LoginRateLimit, d.LoginRateWindow))
			}
			r.Post("/login", d.Auth.Login)
		})
		r.Post("/refresh", d.Auth.Refresh)
		r.Post("/register", d.Auth.Register)

		// self-service
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(d.Issuer))
			r.Use(middleware.RequirePermission(domain.PermissionManageMyself.Name))

			r.Get("/me", d.Users.Me)
			r.Put("/me/password", d.Users.ChangePassword)
			r.Put("/me/username", d.Users.ChangeUsername)
			r.Put("/me/email", d.Users.ChangeEmail)
			r.Delete("/me", d.Users.DeleteMe)
		})

		// admin
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(d.Issuer))
			r.Use(middleware.RequirePermission(domain.PermissionManageUsers.Name))

			r.Get("/", d.Users.List)
			r.Get("/{id}", d.Users.GetByID)
			r.Post("/{id}/promote", d.Users.Promote)
			r.Post("/{id}/demote", d.Users.Demote)
		})
	})

	return r
}
