package server

import (
	"log/slog"
	"os"
	"time"
)

// Option configures server behavior.
type Option func(*Server)

// WithLogger sets a custom logger for server operations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShutdownTimeout sets how long in-flight connections may take to finish
// once shutdown starts. Connections still open afterwards are closed.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = timeout
	}
}

// WithReadTimeout sets the maximum duration for reading the entire request.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = timeout
	}
}

// WithWriteTimeout sets the maximum duration before timing out writes of the response.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = timeout
	}
}

// WithIdleTimeout sets the maximum time to wait for the next request on a keep-alive connection.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = timeout
	}
}

// WithMaxHeaderBytes limits the size of request headers.
func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) {
		s.maxHeaderBytes = n
	}
}

// WithShutdownHooks appends hooks run after draining, in the given order.
func WithShutdownHooks(hooks ...Hook) Option {
	return func(s *Server) {
		s.hooks = append(s.hooks, hooks...)
	}
}

// WithSignals replaces the signals that start a graceful shutdown.
// The default is os.Interrupt and SIGTERM. Passing none disables signal
// handling, leaving context cancellation as the only trigger.
func WithSignals(signals ...os.Signal) Option {
	return func(s *Server) {
		s.signals = signals
	}
}

// WithMetrics records connection metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.tracker.metrics = m
	}
}
