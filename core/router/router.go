// Package router matches requests to handlers and runs them inside a
// middleware chain.
//
// Routes are matched by specificity rather than registration order: at the
// first segment where two patterns differ in kind, the static segment wins.
// "/users/current" is preferred over "/users/:id" whichever was registered
// first, and "/api/v1/:resource" is preferred over "/api/:version/users" for
// "/api/v1/users". Matching also requires equal segment counts, so "/users"
// and "/users/" are distinct routes. A path registered only under another
// method is reported as not found.
//
// Segments are compared in their escaped form when the request path carries
// one, and parameter values are decoded after the match. A percent-encoded
// request such as "/users/%63urrent" therefore does not equal the static
// "current" segment: it matches "/users/:id" with id "current".
//
// Middleware wraps the whole dispatch, including route matching, so a stage
// such as a CORS preflight handler can answer without reaching the router.
//
//	r := router.New[*router.Context](router.WithIntrospection[*router.Context](true))
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Get("/users/:id", showUser, router.Name("show_user"))
//	r.Get("/users/current", currentUser)
package router

import (
	"net/http"

	"github.com/dmitrymomot/rapina/core/handler"
)

// Router is the main routing interface for handling HTTP requests.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	Get(pattern string, h handler.HandlerFunc[C], opts ...RouteOption)
	Post(pattern string, h handler.HandlerFunc[C], opts ...RouteOption)
	Put(pattern string, h handler.HandlerFunc[C], opts ...RouteOption)
	Delete(pattern string, h handler.HandlerFunc[C], opts ...RouteOption)
	Patch(pattern string, h handler.HandlerFunc[C], opts ...RouteOption)
	Head(pattern string, h handler.HandlerFunc[C], opts ...RouteOption)
	Options(pattern string, h handler.HandlerFunc[C], opts ...RouteOption)

	// Route registers h for an arbitrary method. It panics with an error
	// wrapping ErrInvalidPattern when the pattern is malformed or the router
	// has been prepared.
	Route(method, pattern string, h handler.HandlerFunc[C], opts ...RouteOption)

	// Use appends middleware. The first middleware added is the outermost.
	Use(middlewares ...handler.Middleware[C])

	// Prepare sorts routes and seals the router. ServeHTTP calls it on
	// first use; calling it again is a no-op.
	Prepare()
}

// Routes provides route introspection.
type Routes interface {
	Routes() []Route
}

// Route describes a registered route.
type Route struct {
	Method  string
	Pattern string
	Name    string
}

// RouteOption configures a single route registration.
type RouteOption func(*routeConfig)

type routeConfig struct {
	name string
}

// Name attaches a handler name, which makes the route visible through the
// introspection endpoint.
func Name(name string) RouteOption {
	return func(c *routeConfig) {
		c.name = name
	}
}

// New creates a new router with the given options.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
