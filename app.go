package rapina

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/dmitrymomot/rapina/core/config"
	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/logger"
	"github.com/dmitrymomot/rapina/core/requestctx"
	"github.com/dmitrymomot/rapina/core/router"
	"github.com/dmitrymomot/rapina/core/server"
	"github.com/dmitrymomot/rapina/core/state"
)

// App ties a router, application state, middleware and the shutdown
// coordinator together.
type App struct {
	config          Config
	logger          *slog.Logger
	state           *state.Builder
	routes          []func(r router.Router[*router.Context])
	middlewares     []handler.Middleware[*router.Context]
	errorHandler    handler.ErrorHandler[*router.Context]
	requestIDHeader string
	hooks           []server.Hook
	serverOpts      []server.Option

	buildOnce sync.Once
	handler   http.Handler
	built     *state.State
}

// New loads Config from the environment and applies opts on top of it.
func New(opts ...Option) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{
		config: cfg,
		state:  state.NewBuilder(),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = logger.New(
			logger.WithLevel(logger.ParseLevel(app.config.LogLevel)),
			logger.WithFormat(app.config.LogFormat),
		)
	}

	return app, nil
}

// Handler builds the state and the router on first call and returns the
// prepared router. Options applied after the first call have no effect.
func (a *App) Handler() http.Handler {
	a.buildOnce.Do(a.build)
	return a.handler
}

// State returns the application state, building the handler if needed.
func (a *App) State() *state.State {
	a.buildOnce.Do(a.build)
	return a.built
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) build() {
	a.built = a.state.Build()

	opts := []router.Option[*router.Context]{
		router.WithState[*router.Context](a.built),
		router.WithIntrospection[*router.Context](a.config.Introspection),
		router.WithLogger[*router.Context](a.logger),
		router.WithMiddleware(a.middlewares...),
	}
	if a.errorHandler != nil {
		opts = append(opts, router.WithErrorHandler(a.errorHandler))
	}
	if a.requestIDHeader != "" {
		opts = append(opts, router.WithRequestContextFactory[*router.Context](requestctx.FromHeader(a.requestIDHeader)))
	}

	r := router.New(opts...)
	for _, fn := range a.routes {
		fn(r)
	}
	r.Prepare()

	a.handler = r
}

// Listen binds addr and serves until ctx is canceled or a shutdown signal
// arrives, then drains connections and runs the shutdown hooks.
func (a *App) Listen(ctx context.Context, addr string) error {
	srv, err := a.newServer(addr)
	if err != nil {
		return err
	}
	return srv.Listen(ctx, a.Handler())
}

// Serve is like Listen but accepts connections on ln.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv, err := a.newServer(ln.Addr().String())
	if err != nil {
		return err
	}
	return srv.Serve(ctx, ln, a.Handler())
}

func (a *App) newServer(addr string) (*server.Server, error) {
	cfg := a.config.Server
	if addr != "" {
		cfg.Addr = addr
	}

	opts := append([]server.Option{
		server.WithLogger(a.logger),
		server.WithShutdownHooks(a.hooks...),
	}, a.serverOpts...)

	return server.NewFromConfig(cfg, opts...)
}
