package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/recipe-box/backend/internal/middleware"
)

func TestMetrics_RecordsRoutePatternAndLookupKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.With(m.CountLookups("ref")).Get("/recipes/{ref}", trivialHandler)

	for _, path := range []string{"/recipes/pancakes", "/recipes/waffles-1", "/recipes/507f1f77bcf86cd799439011"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	n, err := testutil.GatherAndCount(reg, "recipebox_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "all three requests share one route-pattern series")

	const want = `
# HELP recipebox_recipe_lookups_total Recipe path tokens resolved, by kind (slug or legacy id).
# TYPE recipebox_recipe_lookups_total counter
recipebox_recipe_lookups_total{kind="id"} 1
recipebox_recipe_lookups_total{kind="slug"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "recipebox_recipe_lookups_total"))
}
