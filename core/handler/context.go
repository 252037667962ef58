package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts in the framework.
// The router creates exactly one Context per request, before the middleware
// chain runs, so route parameters are filled in by the terminal stage via
// SetParam once a route has been matched.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetParam(key, value string)
	SetValue(key, val any)
}
