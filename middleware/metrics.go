package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/router"
)

// unmatchedRoute labels requests that no route matched, which keeps label
// cardinality bounded when clients probe random paths.
const unmatchedRoute = "unmatched"

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Registerer receives the collectors (default: prometheus.DefaultRegisterer)
	Registerer prometheus.Registerer

	// Namespace prefixes metric names (default: "rapina")
	Namespace string

	// Buckets for the latency histogram (default: prometheus.DefBuckets)
	Buckets []float64
}

// Metrics records request counts and latencies labelled by method, route
// pattern and status code, registered with reg.
//
//	reg := prometheus.NewRegistry()
//	r.Use(middleware.Metrics[*router.Context](reg))
//	r.Get("/metrics", handler.FromHTTP[*router.Context](promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
func Metrics[C handler.Context](reg prometheus.Registerer) handler.Middleware[C] {
	return MetricsWithConfig[C](MetricsConfig{Registerer: reg})
}

// MetricsWithConfig creates a metrics middleware with custom configuration.
// Creating it twice against the same registerer reuses the collectors.
func MetricsWithConfig[C handler.Context](cfg MetricsConfig) handler.Middleware[C] {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "rapina"
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prometheus.DefBuckets
	}

	labels := []string{"method", "route", "status"}

	requests := register(cfg.Registerer, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of HTTP requests handled.",
		},
		labels,
	))

	duration := register(cfg.Registerer, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent handling HTTP requests.",
			Buckets:   cfg.Buckets,
		},
		labels,
	))

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			response := nonNil(next(ctx))

			return func(w http.ResponseWriter, r *http.Request) error {
				sw := &statusWriter{ResponseWriter: w}
				err := response(sw, r)

				status := sw.status
				if status == 0 {
					status = http.StatusOK
					if err != nil {
						status = errorStatus(err)
					}
				}

				route := router.MatchedPattern(ctx)
				if route == "" {
					route = unmatchedRoute
				}

				values := []string{r.Method, route, strconv.Itoa(status)}
				requests.WithLabelValues(values...).Inc()
				duration.WithLabelValues(values...).Observe(time.Since(start).Seconds())

				return err
			}
		}
	}
}

// register adds c to reg, or returns the collector already registered
// under the same descriptor.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
