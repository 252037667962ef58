package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/response"
	"github.com/dmitrymomot/rapina/core/router"
	"github.com/dmitrymomot/rapina/middleware"
)

func requestCount(t *testing.T, reg *prometheus.Registry, method, route, status string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "rapina_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["method"] == method && labels["route"] == route && labels["status"] == status {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	t.Run("labels by route pattern", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		r := router.New[*router.Context]()
		r.Use(middleware.Metrics[*router.Context](reg))
		r.Get("/users/:id", text("user"))
		r.Post("/users", func(*router.Context) handler.Response {
			return response.Error(response.ErrBadRequest)
		})

		do(r, httptest.NewRequest(http.MethodGet, "/users/1", nil))
		do(r, httptest.NewRequest(http.MethodGet, "/users/2", nil))
		do(r, httptest.NewRequest(http.MethodPost, "/users", nil))
		do(r, httptest.NewRequest(http.MethodGet, "/random/probe", nil))

		assert.Equal(t, 2.0, requestCount(t, reg, "GET", "/users/:id", "200"))
		assert.Equal(t, 1.0, requestCount(t, reg, "POST", "/users", "400"))
		assert.Equal(t, 1.0, requestCount(t, reg, "GET", "unmatched", "404"))

		count, err := testutil.GatherAndCount(reg, "rapina_http_request_duration_seconds")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("exposed through promhttp route", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		r := router.New[*router.Context]()
		r.Use(middleware.MetricsWithConfig[*router.Context](middleware.MetricsConfig{
			Registerer: reg,
			Namespace:  "app",
		}))
		r.Get("/", text("ok"))
		r.Get("/metrics", handler.FromHTTP[*router.Context](promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

		do(r, httptest.NewRequest(http.MethodGet, "/", nil))
		w := do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `app_http_requests_total{method="GET",route="/",status="200"} 1`)
	})

	t.Run("reuses collectors on the same registry", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		first := middleware.Metrics[*router.Context](reg)

		var second handler.Middleware[*router.Context]
		require.NotPanics(t, func() {
			second = middleware.Metrics[*router.Context](reg)
		})

		a := router.New[*router.Context]()
		a.Use(first)
		a.Get("/", text("a"))

		b := router.New[*router.Context]()
		b.Use(second)
		b.Get("/", text("b"))

		do(a, httptest.NewRequest(http.MethodGet, "/", nil))
		do(b, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, 2.0, requestCount(t, reg, "GET", "/", "200"))
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		r := router.New[*router.Context]()
		r.Use(middleware.MetricsWithConfig[*router.Context](middleware.MetricsConfig{
			Registerer: reg,
			Skip: func(ctx handler.Context) bool {
				return ctx.Request().URL.Path == "/metrics"
			},
		}))
		r.Get("/metrics", text("metrics"))

		do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		count, err := testutil.GatherAndCount(reg)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
