// Package middleware provides handler.Middleware implementations for the router.
//
// Every middleware is generic over the handler.Context type and has a default
// constructor plus a WithConfig variant:
//
//	reg := prometheus.NewRegistry()
//	r := router.New[*router.Context]()
//	r.Use(
//		middleware.Recoverer[*router.Context](log),
//		middleware.RequestID[*router.Context](),
//		middleware.LoggingWithLogger[*router.Context](log),
//		middleware.Metrics[*router.Context](reg),
//		middleware.CORS[*router.Context](),
//	)
//
// The first middleware passed to Use is the outermost. Middleware runs around
// route matching, so CORS answers preflight requests for paths that have no
// OPTIONS route, and Logging and Metrics see requests that end in 404.
package middleware
