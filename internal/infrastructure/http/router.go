package http

import (
	"context"
	"net/http"
	"time"

	"furniture-admin/pkg/errors"
	jwtutil "furniture-admin/pkg/jwt"
	"furniture-admin/pkg/middleware"
	"furniture-admin/pkg/response"

	"github.com/go-chi/chi/v5"
)

// RouterConfig carries the controllers and settings mounted by NewRouter
type RouterConfig struct {
	DashboardController *HTTPAdminDashboardController
	OrderController     *HTTPOrderController
	Verifier            *jwtutil.CredentialVerifier
	RequestTimeout      time.Duration
	// HealthCheck reports whether the order source is reachable; nil skips it
	HealthCheck func(ctx context.Context) error
}

// NewRouter builds the service's HTTP routes. Everything under /api/admin
// requires an admin bearer credential.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.HealthCheck != nil {
			if err := cfg.HealthCheck(r.Context()); err != nil {
				middleware.HandleError(w, r, errors.NewServiceUnavailableError("Order source unavailable").WithCause(err))
				return
			}
		}
		response.SendSuccess(w, r, map[string]string{"status": "healthy"})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.CredentialMiddleware(cfg.Verifier))

		r.Get("/dashboard/revenue", cfg.DashboardController.GetRevenue)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", cfg.OrderController.ListOrders)
			r.Get("/{id}", cfg.OrderController.GetOrder)
			r.Put("/{id}/status", cfg.OrderController.UpdateOrderStatus)
			r.Get("/{id}/invoice", cfg.OrderController.GetInvoice)
		})
	})

	return r
}
