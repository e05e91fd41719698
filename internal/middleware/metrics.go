package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pkordes/recipe-box/backend/internal/slug"
)

// Metrics holds the Prometheus collectors for the HTTP layer.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	recipeLookups   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recipebox_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		recipeLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipebox_recipe_lookups_total",
				Help: "Recipe path tokens resolved, by kind (slug or legacy id).",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(m.requestDuration, m.recipeLookups)
	return m
}

// Handler records request duration labelled by chi route pattern rather than
// raw path, so per-recipe slugs do not explode label cardinality.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}

// CountLookups records whether the {param} path token of a routed request is
// a legacy identifier or a slug. Legacy traffic shows how much the
// identifier-shaped heuristic is still relied on.
func (m *Metrics) CountLookups(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := chi.URLParam(r, param); token != "" {
				kind := "slug"
				if slug.IsLegacyID(token) {
					kind = "id"
				}
				m.recipeLookups.WithLabelValues(kind).Inc()
			}
			next.ServeHTTP(w, r)
		})
	}
}
