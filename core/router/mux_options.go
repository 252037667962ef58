package router

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/requestctx"
	"github.com/dmitrymomot/rapina/core/state"
)

// Option configures a Router during creation.
type Option[C handler.Context] func(*mux[C])

// WithErrorHandler sets a custom error handler for the router.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithMiddleware adds middleware to the router.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) Option[C] {
	return func(m *mux[C]) {
		m.middlewares = append(m.middlewares, middlewares...)
	}
}

// WithContextFactory sets a custom context factory for the router.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request) C) Option[C] {
	return func(m *mux[C]) {
		m.newContext = f
	}
}

// WithRequestContextFactory replaces the per-request correlation handle
// constructor. The default generates a random UUID for every request.
func WithRequestContextFactory[C handler.Context](f func(*http.Request) *requestctx.RequestContext) Option[C] {
	return func(m *mux[C]) {
		if f != nil {
			m.newRequestContext = f
		}
	}
}

// WithState attaches the application state to every request context.
func WithState[C handler.Context](s *state.State) Option[C] {
	return func(m *mux[C]) {
		m.state = s
	}
}

// WithIntrospection enables the IntrospectionPath endpoint.
func WithIntrospection[C handler.Context](enabled bool) Option[C] {
	return func(m *mux[C]) {
		m.introspection = enabled
	}
}

// WithLogger sets a custom logger for the router.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if logger != nil {
			m.logger = logger
		}
	}
}
