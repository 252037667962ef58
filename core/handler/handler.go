package handler

import "net/http"

// Response is a function that renders HTTP responses.
// It sets headers, status code, and writes the response body.
// Rendering errors are handled by the framework's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc is a type-safe HTTP request handler with custom context support.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler converts an error into a response at the router boundary.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps the rest of the chain. Code before calling next is
// pre-processing; wrapping the returned Response is post-processing.
// Returning a Response without calling next short-circuits the chain.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]

// FromHTTP adapts a standard http.Handler, such as promhttp.Handler().
func FromHTTP[C Context](h http.Handler) HandlerFunc[C] {
	return func(C) Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			h.ServeHTTP(w, r)
			return nil
		}
	}
}
