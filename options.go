package rapina

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/router"
	"github.com/dmitrymomot/rapina/core/server"
	"github.com/dmitrymomot/rapina/core/state"
)

// Option configures an App.
type Option func(*App) error

// WithConfig replaces the configuration loaded from the environment.
func WithConfig(cfg Config) Option {
	return func(app *App) error {
		app.config = cfg
		return nil
	}
}

// WithLogger sets the logger shared by the router and the server.
func WithLogger(logger *slog.Logger) Option {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

// WithRouter adds a function that registers routes on the application router.
// Functions run in order when the handler is built.
func WithRouter(fn func(r router.Router[*router.Context])) Option {
	return func(app *App) error {
		if fn == nil {
			return errors.New("route function cannot be nil")
		}
		app.routes = append(app.routes, fn)
		return nil
	}
}

// WithState registers v in the application state. Handlers read it back
// with state.From[T]. A later value of the same type replaces an earlier one.
func WithState[T any](v T) Option {
	return func(app *App) error {
		state.Provide(app.state, v)
		return nil
	}
}

// WithMiddleware appends middleware. The first one added is the outermost.
func WithMiddleware(middlewares ...handler.Middleware[*router.Context]) Option {
	return func(app *App) error {
		app.middlewares = append(app.middlewares, middlewares...)
		return nil
	}
}

// WithErrorHandler sets the router error handler.
func WithErrorHandler(h handler.ErrorHandler[*router.Context]) Option {
	return func(app *App) error {
		if h == nil {
			return errors.New("error handler cannot be nil")
		}
		app.errorHandler = h
		return nil
	}
}

// WithIntrospection toggles the route introspection endpoint.
func WithIntrospection(enabled bool) Option {
	return func(app *App) error {
		app.config.Introspection = enabled
		return nil
	}
}

// WithShutdownTimeout bounds connection draining.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(app *App) error {
		if timeout <= 0 {
			return errors.New("shutdown timeout must be positive")
		}
		app.config.Server.ShutdownTimeout = timeout
		return nil
	}
}

// OnShutdown registers hooks that run in order after draining.
func OnShutdown(hooks ...server.Hook) Option {
	return func(app *App) error {
		app.hooks = append(app.hooks, hooks...)
		return nil
	}
}

// WithMetrics registers server connection metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(app *App) error {
		app.serverOpts = append(app.serverOpts, server.WithMetrics(server.NewMetrics(reg, "rapina")))
		return nil
	}
}

// WithServerOptions passes extra options to the underlying server.
func WithServerOptions(opts ...server.Option) Option {
	return func(app *App) error {
		app.serverOpts = append(app.serverOpts, opts...)
		return nil
	}
}

// WithRequestIDHeader reuses the correlation ID from the named request
// header when it holds a valid ID. Use it only behind a trusted proxy.
func WithRequestIDHeader(name string) Option {
	return func(app *App) error {
		if name == "" {
			return errors.New("request id header cannot be empty")
		}
		app.requestIDHeader = name
		return nil
	}
}
