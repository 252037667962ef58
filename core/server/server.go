package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dmitrymomot/rapina/core/logger"
)

// Server serves HTTP until a shutdown signal or context cancellation, then
// drains in-flight connections under a deadline and runs shutdown hooks.
// A Server is single-use.
type Server struct {
	mu              sync.Mutex
	addr            string
	boundAddr       net.Addr
	logger          *slog.Logger
	shutdownTimeout time.Duration
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	maxHeaderBytes  int
	hooks           []Hook
	signals         []os.Signal

	tracker   tracker
	phase     atomic.Int32
	started   atomic.Bool
	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a new Server with the given address and options.
// Defaults to a 30-second drain timeout, SIGINT and SIGTERM as shutdown
// triggers and a no-op logger.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:            addr,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdownTimeout: DefaultShutdownTimeout,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM},
		ready:           make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// OnShutdown registers hooks to run after draining. Hooks run sequentially
// in registration order; a hook starts only after the previous one returned.
func (s *Server) OnShutdown(hooks ...Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hooks...)
}

// Listen binds the configured address and serves h until shutdown.
//
// Bind errors are returned wrapped in ErrBindFailure. After a signal or
// context cancellation Listen drains, runs hooks and returns nil; the result
// is the same for every shutdown trigger.
func (s *Server) Listen(ctx context.Context, h http.Handler) error {
	if s.addr == "" {
		return ErrMissingAddress
	}
	if err := s.start(); err != nil {
		return err
	}

	// Signals are watched before binding so an early Ctrl-C is not lost
	sigCh, stopSignals := s.notifySignals()

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		stopSignals()
		s.setPhase(PhaseStopped)
		s.markReady()
		return fmt.Errorf("%w: %s: %w", ErrBindFailure, s.addr, err)
	}

	return s.serve(ctx, ln, h, sigCh, stopSignals)
}

// Serve is Listen on an already bound listener. The listener is closed when
// shutdown starts.
func (s *Server) Serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	if err := s.start(); err != nil {
		return err
	}
	sigCh, stopSignals := s.notifySignals()
	return s.serve(ctx, ln, h, sigCh, stopSignals)
}

// Run provides errgroup compatibility for coordinated lifecycle management.
func (s *Server) Run(ctx context.Context, h http.Handler) func() error {
	return func() error {
		return s.Listen(ctx, h)
	}
}

// Phase returns the current lifecycle phase.
func (s *Server) Phase() Phase {
	return Phase(s.phase.Load())
}

// Addr returns the bound address, or nil before the server is accepting.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundAddr
}

// Ready is closed once the server accepts connections, or once it has
// failed to start.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// ActiveConnections returns the number of open client connections.
func (s *Server) ActiveConnections() int64 {
	return s.tracker.Active()
}

// AcceptedConnections returns the number of connections accepted so far.
func (s *Server) AcceptedConnections() uint64 {
	return s.tracker.Accepted()
}

func (s *Server) serve(ctx context.Context, ln net.Listener, h http.Handler, sigCh <-chan os.Signal, stopSignals func()) error {
	defer stopSignals()

	srv := &http.Server{
		Handler:        h,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		ConnState:      s.tracker.connState,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
		// Requests keep ctx values but not its cancellation, so in-flight
		// work survives the shutdown trigger.
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	s.mu.Lock()
	s.boundAddr = ln.Addr()
	s.mu.Unlock()

	s.setPhase(PhaseAccepting)
	s.markReady()
	s.logger.InfoContext(ctx, "server listening", logger.Addr(ln.Addr().String()))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	var result error
	serving := true

	select {
	case err := <-serveErr:
		serving = false
		result = fmt.Errorf("%w: %w", ErrAcceptLoop, err)
		s.logger.ErrorContext(ctx, "listener failed", logger.Error(err))
	case sig := <-sigCh:
		s.logger.InfoContext(ctx, "shutdown signal received", logger.Signal(sig))
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "shutdown requested", logger.Error(context.Cause(ctx)))
	}

	s.setPhase(PhaseDraining)
	stopIgnoring := s.ignoreSignals(ctx, sigCh)
	defer stopIgnoring()

	s.drain(ctx, srv)
	if serving {
		<-serveErr
	}

	s.mu.Lock()
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	runHooks(context.WithoutCancel(ctx), s.logger, hooks, s.tracker.metrics.hookFailed)

	s.setPhase(PhaseStopped)
	s.logger.InfoContext(ctx, "server stopped")

	return result
}

// drain stops accepting and waits for open connections to finish. When the
// timeout wins the race, the remaining connections are closed.
func (s *Server) drain(ctx context.Context, srv *http.Server) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	s.logger.InfoContext(ctx, "draining connections",
		logger.Connections(s.tracker.Active()),
		logger.Timeout(s.shutdownTimeout),
	)

	err := srv.Shutdown(drainCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		n := s.tracker.Active()
		s.logger.WarnContext(ctx, "shutdown timeout reached, abandoning connections", logger.Connections(n))
		s.tracker.metrics.abandoned(n)
		if err := srv.Close(); err != nil {
			s.logger.ErrorContext(ctx, "failed to close connections", logger.Error(err))
		}
		return
	}
	if err != nil {
		// Shutdown only returns other errors after the connections are idle
		s.logger.WarnContext(ctx, "failed to close listener", logger.Error(err))
	}

	s.logger.InfoContext(ctx, "all connections drained")
}

func (s *Server) start() error {
	if s.started.CompareAndSwap(false, true) {
		return nil
	}
	if s.Phase() == PhaseStopped {
		return ErrServerStopped
	}
	return ErrServerAlreadyRunning
}

func (s *Server) setPhase(p Phase) {
	s.phase.Store(int32(p))
	s.logger.Debug("server phase changed", logger.Phase(p.String()))
}

func (s *Server) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// notifySignals subscribes to the shutdown signals. The subscription is kept
// until the server stops, so repeated signals never reach the default
// handler that would kill the process mid-drain.
func (s *Server) notifySignals() (<-chan os.Signal, func()) {
	if len(s.signals) == 0 {
		return nil, func() {}
	}

	ch := make(chan os.Signal, 2)
	signal.Notify(ch, s.signals...)
	return ch, func() { signal.Stop(ch) }
}

// ignoreSignals consumes signals received while draining. Shutdown is
// already under way, so they only get logged.
func (s *Server) ignoreSignals(ctx context.Context, sigCh <-chan os.Signal) func() {
	if sigCh == nil {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case sig := <-sigCh:
				s.logger.DebugContext(ctx, "signal ignored, shutdown in progress", logger.Signal(sig))
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// Run is a convenience function that creates and runs a server with default settings.
func Run(ctx context.Context, addr string, h http.Handler) error {
	return New(addr).Listen(ctx, h)
}
