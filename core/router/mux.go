package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/requestctx"
	"github.com/dmitrymomot/rapina/core/state"
)

// mux is the private implementation of Router interface.
type mux[C handler.Context] struct {
	table             *Table[handler.HandlerFunc[C]]
	middlewares       []handler.Middleware[C]
	errorHandler      handler.ErrorHandler[C]
	newContext        func(http.ResponseWriter, *http.Request) C
	newRequestContext func(*http.Request) *requestctx.RequestContext
	state             *state.State
	logger            *slog.Logger
	introspection     bool

	prepareOnce sync.Once
	entry       handler.HandlerFunc[C]
	routeInfos  []RouteInfo
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		table:        NewTable[handler.HandlerFunc[C]](),
		errorHandler: defaultErrorHandler[C],
		newRequestContext: func(*http.Request) *requestctx.RequestContext {
			return requestctx.New()
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			// Only the default *Context can be built without a factory
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.Prepare()

	ww := newResponseWriter(w)

	reqCtx := requestctx.NewContext(r.Context(), m.newRequestContext(r))
	if m.state != nil {
		reqCtx = state.NewContext(reqCtx, m.state)
	}
	r = r.WithContext(reqCtx)

	ctx := m.newContext(ww, r)

	// Recover from panics to prevent server crashes
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{
				value: p,
				stack: debug.Stack(),
			}

			if ww.Written() {
				m.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
				return
			}
			m.errorHandler(ctx, panicErr)
		}
	}()

	response := m.entry(ctx)
	if response == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := response(ww, ctx.Request()); err != nil {
		m.errorHandler(ctx, err)
	}
}

// dispatch is the innermost stage of the chain: it matches the route and
// invokes its handler. A miss is returned as an error Response so that the
// enclosing middleware still post-process it. The escaped path is matched
// when present; only captured parameters are unescaped.
func (m *mux[C]) dispatch(ctx C) handler.Response {
	r := ctx.Request()

	path := r.URL.Path
	raw := r.URL.RawPath != ""
	if raw {
		path = r.URL.RawPath
	}

	e, params, err := m.table.Match(r.Method, path)
	if err != nil {
		return errorResponse(err)
	}

	if raw {
		unescapeParams(params)
	}
	for k, v := range params {
		ctx.SetParam(k, v)
	}
	ctx.SetValue(patternKey{}, e.Pattern.String())

	response := e.Handler(ctx)
	if response == nil {
		return errorResponse(ErrNilResponse)
	}
	return response
}

func errorResponse(err error) handler.Response {
	return func(http.ResponseWriter, *http.Request) error {
		return err
	}
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C], opts ...RouteOption) {
	m.Route(http.MethodGet, pattern, h, opts...)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C], opts ...RouteOption) {
	m.Route(http.MethodPost, pattern, h, opts...)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C], opts ...RouteOption) {
	m.Route(http.MethodPut, pattern, h, opts...)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C], opts ...RouteOption) {
	m.Route(http.MethodDelete, pattern, h, opts...)
}

func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C], opts ...RouteOption) {
	m.Route(http.MethodPatch, pattern, h, opts...)
}

func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C], opts ...RouteOption) {
	m.Route(http.MethodHead, pattern, h, opts...)
}

func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C], opts ...RouteOption) {
	m.Route(http.MethodOptions, pattern, h, opts...)
}

// Route registers a handler for the given method.
func (m *mux[C]) Route(method, pattern string, h handler.HandlerFunc[C], opts ...RouteOption) {
	if _, ok := methods[method]; !ok {
		panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
	}
	if h == nil {
		panic(fmt.Errorf("%w: nil handler for %s %s", ErrInvalidPattern, method, pattern))
	}

	var cfg routeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := m.table.Register(method, pattern, h, cfg.name); err != nil {
		panic(err)
	}
}

// Use appends middleware to the router.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.table.Prepared() {
		panic(fmt.Errorf("%w: middleware must be added before serving", ErrRouterPrepared))
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// Prepare registers the introspection route when enabled, orders the route
// table and composes the middleware chain around dispatch.
func (m *mux[C]) Prepare() {
	m.prepareOnce.Do(func() {
		if m.introspection {
			if err := m.table.Register(http.MethodGet, IntrospectionPath, m.introspect, IntrospectionName); err != nil {
				m.logger.Error("failed to register introspection route", "error", err)
			}
		}

		m.table.Prepare()
		m.routeInfos = collectRouteInfos(m.table.Entries())
		m.entry = chain(m.middlewares, m.dispatch)

		m.logger.Debug("router prepared",
			"routes", len(m.table.Entries()),
			"middlewares", len(m.middlewares),
		)
	})
}

// Routes returns all registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	entries := m.table.Entries()
	routes := make([]Route, 0, len(entries))
	for _, e := range entries {
		routes = append(routes, Route{
			Method:  e.Method,
			Pattern: e.Pattern.String(),
			Name:    e.Name,
		})
	}
	return routes
}

var methods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}
