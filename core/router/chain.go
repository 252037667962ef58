package router

import "github.com/dmitrymomot/rapina/core/handler"

// chain wraps endpoint so that middlewares[0] is the outermost stage.
func chain[C handler.Context](middlewares []handler.Middleware[C], endpoint handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
