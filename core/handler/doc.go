// Package handler defines the request-processing abstractions shared by the
// router, the middleware package and application code.
//
// A request flows through two phases. In the handle phase every middleware
// stage and finally the route handler is called with the request Context and
// returns a Response. In the render phase the outermost Response is invoked
// with the http.ResponseWriter; each middleware that wrapped the Response runs
// its post-processing around the inner one, so pre and post logic nest exactly
// like the middleware list.
//
//	type Response func(w http.ResponseWriter, r *http.Request) error
//	type HandlerFunc[C Context] func(ctx C) Response
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//	type ErrorHandler[C Context] func(ctx C, err error)
//
// # Middleware
//
// A middleware can pre-process, post-process, or short-circuit:
//
//	func Timing[C handler.Context]() handler.Middleware[C] {
//		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//			return func(ctx C) handler.Response {
//				start := time.Now()
//				resp := next(ctx)
//				return func(w http.ResponseWriter, r *http.Request) error {
//					w.Header().Set("X-Handle-Time", time.Since(start).String())
//					return resp(w, r)
//				}
//			}
//		}
//	}
//
// # Errors
//
// A Response that returns an error hands it back to every enclosing
// middleware wrapper. The router converts it into an HTTP response once, at
// the outermost boundary, with its ErrorHandler.
package handler
