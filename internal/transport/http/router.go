// Package httptransport assembles the HTTP surface: shared middleware, the
// public token endpoint, the gate device endpoints and the administrative
// registry endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parkgate/internal/platform/metrics"
	"parkgate/internal/platform/middleware"
)

// Registrar mounts a handler's routes on a router group.
type Registrar interface {
	Register(r chi.Router)
}

// GateRegistrar mounts device-facing routes separately from admin routes.
type GateRegistrar interface {
	RegisterGate(r chi.Router)
	RegisterAdmin(r chi.Router)
}

// Deps carries everything the router needs. Admin handlers sit behind the
// shared admin token; gate handlers behind gate bearer auth; the auth handler
// is public.
type Deps struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Validator  middleware.TokenValidator
	AdminToken string

	Auth     Registrar
	Facility Registrar
	Gate     Registrar
	Vehicle  Registrar
	Tariff   Registrar
	Stats    Registrar
	Transit  GateRegistrar

	Health http.HandlerFunc
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	if d.Metrics != nil {
		r.Use(middleware.LatencyMiddleware(d.Metrics))
	}

	if d.Health != nil {
		r.Get("/healthz", d.Health)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(pub chi.Router) {
		pub.Use(middleware.ContentTypeJSON)
		d.Auth.Register(pub)
	})

	r.Group(func(gate chi.Router) {
		gate.Use(middleware.ContentTypeJSON)
		gate.Use(middleware.RequireGateAuth(d.Validator, d.Logger))
		d.Transit.RegisterGate(gate)
	})

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.ContentTypeJSON)
		admin.Use(middleware.RequireAdmin(d.AdminToken))
		d.Facility.Register(admin)
		d.Gate.Register(admin)
		d.Vehicle.Register(admin)
		d.Tariff.Register(admin)
		d.Stats.Register(admin)
		d.Transit.RegisterAdmin(admin)
	})

	return r
}
