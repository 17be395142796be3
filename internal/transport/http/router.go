package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"signup/internal/i18n"
	"signup/internal/platform/metrics"
	"signup/pkg/platform/middleware/logging"
	"signup/pkg/platform/middleware/metadata"
	"signup/pkg/platform/middleware/recovery"
	"signup/pkg/platform/middleware/requestid"
	"signup/pkg/platform/middleware/requesttime"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1.0"

// RouteRegistrar mounts a module's routes onto a router.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Dependencies are the pieces the router wires together.
type Dependencies struct {
	Logger   *slog.Logger
	Locales  i18n.Resolver
	Modules  []RouteRegistrar
	Registry *prometheus.Registry
	Checks   []HealthCheck
}

// NewRouter builds the HTTP surface: shared middleware, health endpoints,
// metrics and the versioned API.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(logging.Middleware(logger))
	r.Use(recovery.Middleware(logger))
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", handleLiveness)
	r.Get("/readyz", readinessHandler(deps.Checks, logger))
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Registry))
	}

	r.Route(APIPrefix, func(api chi.Router) {
		api.Use(i18n.Middleware(deps.Locales))
		for _, m := range deps.Modules {
			m.Register(api)
		}
	})
	return r
}
