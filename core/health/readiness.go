package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/logger"
	"github.com/dmitrymomot/rapina/core/response"
)

// Check is a named dependency probe, such as a database ping.
type Check struct {
	Name string
	Func func(context.Context) error
}

// NewCheck pairs a name with a probe function.
func NewCheck(name string, fn func(context.Context) error) Check {
	return Check{Name: name, Func: fn}
}

// Readiness runs checks in order and answers 200 "READY" when all pass.
// The first failing check fails the request with a 503 naming the check;
// the underlying error is only logged.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx C) handler.Response {
		for _, c := range checks {
			if c.Func == nil {
				continue
			}
			if err := c.Func(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component(c.Name),
					logger.Error(err),
				)
				return response.Error(response.ErrServiceUnavailable.WithDetails(map[string]any{
					"check": c.Name,
				}))
			}
		}

		return response.WithHeaders(response.String("READY"), noStore)
	}
}
