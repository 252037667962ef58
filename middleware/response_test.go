package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/router"
	"github.com/dmitrymomot/rapina/middleware"
)

func TestNilInnerResponse(t *testing.T) {
	t.Parallel()

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		mw   handler.Middleware[*router.Context]
	}{
		{name: "recoverer", mw: middleware.Recoverer[*router.Context](discard)},
		{name: "cors", mw: middleware.CORS[*router.Context]()},
		{name: "logging", mw: middleware.LoggingWithLogger[*router.Context](discard)},
		{name: "metrics", mw: middleware.Metrics[*router.Context](prometheus.NewRegistry())},
		{name: "request id", mw: middleware.RequestID[*router.Context]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got error
			r := router.New[*router.Context](router.WithErrorHandler(func(ctx *router.Context, err error) {
				got = err
				ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
			}))
			r.Use(
				tt.mw,
				func(handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
					return func(*router.Context) handler.Response { return nil }
				},
			)
			r.Get("/", text("unreachable"))

			w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.ErrorIs(t, got, router.ErrNilResponse)

			var pe router.PanicError
			assert.NotErrorAs(t, got, &pe)
		})
	}
}
