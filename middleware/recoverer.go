package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/logger"
	"github.com/dmitrymomot/rapina/core/requestctx"
)

// recoveredPanic is returned in place of a panic. It exposes Value and Stack
// like the router's PanicError, so error handlers render it as a bare 500.
type recoveredPanic struct {
	value any
	stack []byte
}

func (p *recoveredPanic) Error() string { return fmt.Sprintf("panic: %v", p.value) }
func (p *recoveredPanic) Value() any    { return p.value }
func (p *recoveredPanic) Stack() []byte { return p.stack }

func (p *recoveredPanic) Unwrap() error {
	if err, ok := p.value.(error); ok {
		return err
	}
	return nil
}

// Recoverer turns panics in inner stages, during either handling or
// rendering, into errors. Outer middleware then sees an ordinary failure,
// which keeps logging and metrics accurate. The router still recovers
// panics on its own when this middleware is not installed.
func Recoverer[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	if log == nil {
		log = logger.Discard()
	}

	report := func(ctx C, p any) error {
		rp := &recoveredPanic{value: p, stack: debug.Stack()}
		log.ErrorContext(ctx, "panic recovered",
			logger.RequestID(requestctx.ID(ctx)),
			slog.Any("panic", p),
			slog.String("stack", string(rp.stack)),
		)
		return rp
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) (resp handler.Response) {
			defer func() {
				if p := recover(); p != nil {
					err := report(ctx, p)
					resp = func(http.ResponseWriter, *http.Request) error { return err }
				}
			}()

			inner := nonNil(next(ctx))

			return func(w http.ResponseWriter, r *http.Request) (err error) {
				defer func() {
					if p := recover(); p != nil {
						err = report(ctx, p)
					}
				}()
				return inner(w, r)
			}
		}
	}
}
