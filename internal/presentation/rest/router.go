package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bibbank/loan-decision/pkg/auth"
)

// RouterDeps wires the HTTP surface. JWT and Metrics are optional.
type RouterDeps struct {
	Logger   *slog.Logger
	Health   *HealthHandler
	Decision *DecisionHandler
	Form     *FormHandler
	Metrics  http.Handler
	JWT      *auth.JWTService
}

// NewRouter builds the HTTP handler. The form and health endpoints are
// public; /v1 requires a bearer token when JWT is set.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(deps.Logger))

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	r.Get("/", deps.Form.Show)
	r.Post("/", deps.Form.Submit)

	r.Route("/v1", func(r chi.Router) {
		if deps.JWT != nil {
			r.Use(auth.HTTPMiddleware(deps.JWT))
		}
		r.With(auth.RequireRoleHTTP(auth.EvaluatorRoles...)).Post("/decisions", deps.Decision.Evaluate)
		r.With(auth.RequireRoleHTTP(auth.ReaderRoles...)).Get("/model", deps.Decision.Model)
	})

	return r
}
