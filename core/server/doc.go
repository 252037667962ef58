// Package server runs an http.Handler with coordinated graceful shutdown.
//
// A Server moves through four phases:
//
//   - Idle: created, not yet bound.
//   - Accepting: the listener is open and every connection is served on its
//     own goroutine. The server waits for SIGINT, SIGTERM or cancellation of
//     the context passed to Listen, whichever comes first.
//   - Draining: the listener is closed and in-flight connections race the
//     shutdown timeout. When the timeout wins, the remaining connections are
//     closed and a warning with their count is logged.
//   - Stopped: shutdown hooks have run, one at a time, in registration order.
//
// A hook that fails or panics is logged and the next hook still runs. Signals
// that arrive while draining are logged and ignored.
//
//	srv := server.New(":8080",
//		server.WithShutdownTimeout(10*time.Second),
//		server.WithLogger(log),
//	)
//	srv.OnShutdown(server.HookFunc(func(ctx context.Context) error {
//		pool.Close()
//		return nil
//	}))
//
//	if err := srv.Listen(ctx, handler); err != nil {
//		// errors.Is(err, server.ErrBindFailure) when the address is taken
//		log.Error("server failed", logger.Error(err))
//	}
//
// Config carries the same settings as environment variables (SERVER_ADDR,
// SERVER_SHUTDOWN_TIMEOUT, ...) for use with core/config.
package server
