// Package httpapi assembles the HTTP surface: the JSON API, the form page and
// operational endpoints, behind the shared middleware chain.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "waterquality/pkg/domain-errors"
	"waterquality/pkg/platform/httputil"
	"waterquality/pkg/platform/middleware/metadata"
	"waterquality/pkg/platform/middleware/request"
	"waterquality/pkg/platform/middleware/requesttime"
)

// Registrar mounts routes on a router.
type Registrar interface {
	Register(r chi.Router)
}

// RateLimiter wraps a handler group with a per-client limit for scope.
type RateLimiter interface {
	RateLimit(scope string) func(http.Handler) http.Handler
}

// HealthCheck reports a dependency's health. Name appears in the response.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps are the pieces NewRouter wires together. RateLimiter and Metrics are optional.
// TrustedProxies lists the peers whose forwarding headers identify the client.
type Deps struct {
	Logger         *slog.Logger
	API            Registrar
	Web            Registrar
	RateLimiter    RateLimiter
	Metrics        http.Handler
	Health         []HealthCheck
	TrustedProxies []netip.Prefix
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter wires all public endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata(d.TrustedProxies))
	r.Use(request.Recover(d.Logger))
	r.Use(request.Logger(d.Logger))

	r.Get("/healthz", healthHandler(d.Health))
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.RateLimit("api"))
		}
		d.API.Register(r)
	})

	r.Group(func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.RateLimit("web"))
		}
		d.Web.Register(r)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	return r
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				resp.Checks[c.Name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
