package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/rapina/core/logger"
)

// Hook is a cleanup action run once after connections are drained.
type Hook interface {
	Run(context.Context) error
}

// HookFunc is a func variant of the Hook interface.
type HookFunc func(context.Context) error

// Run implements the Hook interface.
func (f HookFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// runHooks runs hooks one after another in slice order. A failing or
// panicking hook is logged and the remaining hooks still run.
func runHooks(ctx context.Context, log *slog.Logger, hooks []Hook, onFailure func()) {
	for i, h := range hooks {
		if err := runHook(ctx, h); err != nil {
			log.ErrorContext(ctx, "shutdown hook failed", logger.Hook(i), logger.Error(err))
			if onFailure != nil {
				onFailure()
			}
		}
	}
}

func runHook(ctx context.Context, h Hook) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("hook panicked: %v", p)
		}
	}()
	return h.Run(ctx)
}
