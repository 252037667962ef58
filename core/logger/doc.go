// Package logger builds slog loggers and provides attribute helpers with
// stable keys.
//
//	log := logger.New(
//		logger.WithLevel(logger.ParseLevel(os.Getenv("LOG_LEVEL"))),
//		logger.WithFormat(os.Getenv("LOG_FORMAT")),
//		logger.WithService("api"),
//	)
//
//	log.Info("server listening", logger.Addr(":8080"))
//	log.Warn("shutdown timeout reached, abandoning connections", logger.Connections(3))
//
// Helpers taking optional values (Error, RequestID, Addr, Signal) return an
// empty slog.Attr for zero input, which slog handlers skip.
package logger
